package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
	"github.com/dmitrijs2005/recipebox/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration file. It uses
// timex.Duration for interval fields, which accepts both "15m" and integer
// nanoseconds. Absent (zero or nil) fields leave the current value untouched.
type FileConfig struct {
	HTTPAddr                     string          `json:"http_addr" yaml:"http_addr"`
	GRPCAddr                     string          `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDriver               string          `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN                  string          `json:"database_dsn" yaml:"database_dsn"`
	DatabaseName                 string          `json:"database_name" yaml:"database_name"`
	SecretKey                    string          `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	PasswordHashCost             int             `json:"password_hash_cost" yaml:"password_hash_cost"`
	AssetDriver                  string          `json:"asset_driver" yaml:"asset_driver"`
	UploadDir                    string          `json:"upload_dir" yaml:"upload_dir"`
	MaxUploadSize                int64           `json:"max_upload_size" yaml:"max_upload_size"`
	PresignTTL                   *timex.Duration `json:"presign_ttl" yaml:"presign_ttl"`
	S3AccessKey                  string          `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey                  string          `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket                     string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PathStyle                  *bool           `json:"s3_path_style" yaml:"s3_path_style"`
	CORSAllowedOrigins           []string        `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	RateLimit                    float64         `json:"rate_limit" yaml:"rate_limit"`
	RateBurst                    int             `json:"rate_burst" yaml:"rate_burst"`
	LogLevel                     string          `json:"log_level" yaml:"log_level"`
	ShutdownTimeout              *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays the file named by -c/-config onto config. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DatabaseName, c.DatabaseName)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AssetDriver, c.AssetDriver)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PresignTTL != nil {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.PasswordHashCost != 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	if c.MaxUploadSize != 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.S3PathStyle != nil {
		config.S3PathStyle = *c.S3PathStyle
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.RateLimit != 0 {
		config.RateLimit = c.RateLimit
	}
	if c.RateBurst != 0 {
		config.RateBurst = c.RateBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
