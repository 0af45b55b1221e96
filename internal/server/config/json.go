package config

import (
	"encoding/json"
	"os"

	"github.com/vkarpenko/drivespace/internal/flagx"
	"github.com/vkarpenko/drivespace/internal/timex"
)

// JsonConfig is the file-facing DTO. Duration fields accept either strings
// ("1h") or integer nanoseconds; empty string fields leave the previous
// layer's value in place.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3AccessKeyID         string         `json:"s3_access_key_id"`
	S3SecretAccessKey     string         `json:"s3_secret_access_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	RedisAddr             string         `json:"redis_addr"`
	RedisPassword         string         `json:"redis_password"`
	RedisDB               int            `json:"redis_db"`
	TraceEndpoint         string         `json:"trace_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// Unreadable or invalid files panic: a config file that was explicitly
// requested must not be silently skipped.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.S3AccessKeyID != "" {
		config.S3AccessKeyID = c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != "" {
		config.S3SecretAccessKey = c.S3SecretAccessKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
		config.RedisPassword = c.RedisPassword
		config.RedisDB = c.RedisDB
	}
	if c.TraceEndpoint != "" {
		config.TraceEndpoint = c.TraceEndpoint
	}
}
