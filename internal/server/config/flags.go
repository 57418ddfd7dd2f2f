package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address (e.g., ":50051")
//	-D string     database driver: postgres, mongo, memory
//	-d string     database DSN / Mongo URI
//	-n string     Mongo database name
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g., "1h")
//	-r duration   refresh token validity (e.g., "24h")
//	-A string     asset driver: fs, s3
//	-u string     upload directory for the fs driver
//	-b string     S3 bucket name
//	-e string     S3 endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string     log level: debug, info, warn, error
//
// args is first filtered to only the flags recognized here using
// flagx.FilterArgs, so -c/-config and other components' flags pass through.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-D", "-d", "-n", "-s", "-t", "-r", "-A", "-u", "-b", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&config.AssetDriver, "A", config.AssetDriver, "asset driver")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
