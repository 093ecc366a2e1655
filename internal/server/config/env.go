package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "FLASHNEST_"

// parseEnv overlays FLASHNEST_* environment variables. Variables from the
// .env file named by -env (or ./.env when present) are loaded first; they
// never override variables already set in the process environment.
func parseEnv(config *Config) {
	loadDotEnv(flagx.EnvFileFlag())

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.SessionTokenValidityDuration, "SESSION_TOKEN_VALIDITY")
	envDuration(&config.ActionTokenValidityDuration, "ACTION_TOKEN_VALIDITY")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.CookieName, "COOKIE_NAME")
	envString(&config.CookieDomain, "COOKIE_DOMAIN")
	envBool(&config.CookieSecure, "COOKIE_SECURE")
	envList(&config.AllowedOrigins, "ALLOWED_ORIGINS")
	envString(&config.MainDomain, "MAIN_DOMAIN")
	envString(&config.StaticURL, "STATIC_URL")
	envString(&config.SMTPServer, "SMTP_SERVER")
	envInt(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASSWORD")
	envString(&config.MailFromName, "MAIL_FROM_NAME")
	envDuration(&config.MailTimeout, "MAIL_TIMEOUT")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envDuration(&config.HealthProbeInterval, "HEALTH_PROBE_INTERVAL")
}

func loadDotEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	if v, ok := lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(EnvPrefix + name + ": " + err.Error())
		}
		*dst = n
	}
}

func envBool(dst *bool, name string) {
	if v, ok := lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(EnvPrefix + name + ": " + err.Error())
		}
		*dst = b
	}
}

func envDuration(dst *time.Duration, name string) {
	if v, ok := lookup(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(EnvPrefix + name + ": " + err.Error())
		}
		*dst = d
	}
}

func envList(dst *[]string, name string) {
	if v, ok := lookup(name); ok {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst = out
	}
}
