// Package metrics exposes Prometheus metrics for the namespace operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all drivespace metrics plus the standard Go and process
// collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// NamespaceMetrics counts namespace-operation outcomes. OrphanWindows is the
// operator-facing signal for the accepted inconsistency windows: every time
// an operation knowingly leaves the two stores disagreeing (orphaned
// placeholder, orphaned old object after rename, tombstone missed after a
// blob delete), the corresponding label is incremented and the key logged.
type NamespaceMetrics struct {
	FoldersCreated   prometheus.Counter
	UploadsRequested prometheus.Counter
	UploadsConfirmed prometheus.Counter
	FilesRenamed     prometheus.Counter
	FilesDeleted     prometheus.Counter

	OperationFailures *prometheus.CounterVec // labels: op
	OrphanWindows     *prometheus.CounterVec // labels: op
}

// New registers the namespace metrics on reg. Call once per registry.
func New(reg prometheus.Registerer) *NamespaceMetrics {
	return &NamespaceMetrics{
		FoldersCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drivespace_folders_created_total",
			Help: "Folders successfully created in both stores",
		}),
		UploadsRequested: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drivespace_uploads_requested_total",
			Help: "Presigned upload URLs issued (phase A)",
		}),
		UploadsConfirmed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drivespace_uploads_confirmed_total",
			Help: "Upload confirmations persisted to metadata (phase B)",
		}),
		FilesRenamed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drivespace_files_renamed_total",
			Help: "Files renamed across both stores",
		}),
		FilesDeleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drivespace_files_deleted_total",
			Help: "Files deleted (blob removed, metadata tombstoned)",
		}),
		OperationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "drivespace_operation_failures_total",
			Help: "Namespace operations that returned an error to the caller",
		}, []string{"op"}),
		OrphanWindows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "drivespace_orphan_windows_total",
			Help: "Known store-divergence windows left behind by an operation",
		}, []string{"op"}),
	}
}
