package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-v int      verification/reset token validity, minutes
//	-l string   log level
//	-u string   base URL of the static site used in email links
//	-m string   SMTP server host
//	-b string   S3 bucket name
//	-e string   S3 base endpoint
//
// Only the flags above are parsed (see flagx.FilterArgs), so -c and -env
// handled elsewhere do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-v", "-l", "-u", "-m", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	actionValidity := fs.Int("v", int(config.ActionTokenValidityDuration.Minutes()), "verification/reset token validity (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.StaticURL, "u", config.StaticURL, "static site URL used in email links")
	fs.StringVar(&config.SMTPServer, "m", config.SMTPServer, "SMTP server")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.ActionTokenValidityDuration = time.Duration(*actionValidity) * time.Minute
}
