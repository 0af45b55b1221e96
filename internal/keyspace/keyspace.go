// Package keyspace maps the logical namespace (owner, folder, filename) onto
// flat object-store keys and back. Every function here is pure: the rules
// are shared by the reconciliation engine and the listing aggregator, and
// they must agree on them byte for byte.
//
// Layout of a populated namespace for owner "alice":
//
//	alice/                    owner-namespace placeholder
//	alice/docs/               folder placeholder
//	alice/docs/report.pdf     file object
package keyspace

import "strings"

// OwnerPrefix returns the key prefix under which all of an owner's
// objects live.
func OwnerPrefix(owner string) string {
	return owner + "/"
}

// FolderKey returns the placeholder key for a folder. Folder keys always end
// in "/" so an otherwise flat store lists them folder-like.
func FolderKey(owner, folder string) string {
	return owner + "/" + folder + "/"
}

// FileKey returns the object key of a file inside a folder.
func FileKey(owner, folder, filename string) string {
	return owner + "/" + folder + "/" + filename
}

// FileName returns the last path segment of a key.
func FileName(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}

// RenameKey replaces the last path segment of key with newName, preserving
// the folder prefix.
func RenameKey(key, newName string) string {
	return key[:strings.LastIndex(key, "/")+1] + newName
}

// WithinNamespace reports whether key lies inside the owner's namespace.
// The engine calls this before touching either store.
func WithinNamespace(owner, key string) bool {
	return strings.HasPrefix(key, OwnerPrefix(owner))
}

// FoldersFromKeys derives folder names and item counts from a raw key
// listing of the owner's namespace. The first path segment after the owner
// prefix names the folder; occurrences are counted and then reduced by one
// so the folder's own placeholder does not inflate the count. The bare
// owner prefix and keys outside the namespace are ignored.
//
// The result depends only on the key set, not on listing order.
func FoldersFromKeys(owner string, keys []string) map[string]int {
	prefix := OwnerPrefix(owner)

	folders := make(map[string]int)
	for _, key := range keys {
		if key == prefix || !strings.HasPrefix(key, prefix) {
			continue
		}

		rel := strings.TrimPrefix(key, prefix)
		name := rel
		if i := strings.Index(rel, "/"); i >= 0 {
			name = rel[:i]
		}
		if name == "" {
			continue
		}
		folders[name]++
	}

	for name := range folders {
		folders[name]--
	}

	return folders
}
