package config

import (
	"flag"
	"os"
	"time"

	"github.com/vkarpenko/drivespace/internal/flagx"
)

// parseFlags overlays command-line flags on top of whatever defaults and the
// JSON file produced. Unknown flags are filtered out first so the binary can
// share an argv with wrappers that pass extra options.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	endpointAddr := fs.String("a", config.EndpointAddr, "address and port to listen on")
	databaseDSN := fs.String("d", config.DatabaseDSN, "database connection string")
	secretKey := fs.String("s", config.SecretKey, "token signing key")
	tokenValidityMinutes := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity in minutes")
	s3AccessKeyID := fs.String("u", config.S3AccessKeyID, "blob store access key id")
	s3SecretAccessKey := fs.String("p", config.S3SecretAccessKey, "blob store secret access key")
	s3Bucket := fs.String("b", config.S3Bucket, "blob store bucket")
	s3Region := fs.String("g", config.S3Region, "blob store region")
	s3BaseEndpoint := fs.String("e", config.S3BaseEndpoint, "blob store endpoint override")
	redisAddr := fs.String("r", config.RedisAddr, "redis address, empty disables the folder cache")
	traceEndpoint := fs.String("o", config.TraceEndpoint, "otlp trace endpoint, empty disables tracing")

	allowed := []string{"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-r", "-o"}
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], allowed)); err != nil {
		panic(err)
	}

	config.EndpointAddr = *endpointAddr
	config.DatabaseDSN = *databaseDSN
	config.SecretKey = *secretKey
	config.TokenValidityDuration = time.Duration(*tokenValidityMinutes) * time.Minute
	config.S3AccessKeyID = *s3AccessKeyID
	config.S3SecretAccessKey = *s3SecretAccessKey
	config.S3Bucket = *s3Bucket
	config.S3Region = *s3Region
	config.S3BaseEndpoint = *s3BaseEndpoint
	config.RedisAddr = *redisAddr
	config.TraceEndpoint = *traceEndpoint
}
