package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/flashnest/internal/flagx"
	"github.com/dmitrijs2005/flashnest/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	LogLevel                     string         `json:"log_level"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	ActionTokenValidityDuration  timex.Duration `json:"action_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	CookieName                   string         `json:"cookie_name"`
	CookieDomain                 string         `json:"cookie_domain"`
	CookieSecure                 *bool          `json:"cookie_secure"`
	AllowedOrigins               []string       `json:"allowed_origins"`
	MainDomain                   string         `json:"main_domain"`
	StaticURL                    string         `json:"static_url"`
	SMTPServer                   string         `json:"smtp_server"`
	SMTPPort                     int            `json:"smtp_port"`
	SMTPUser                     string         `json:"smtp_user"`
	SMTPPassword                 string         `json:"smtp_password"`
	MailFromName                 string         `json:"mail_from_name"`
	MailTimeout                  timex.Duration `json:"mail_timeout"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	HealthProbeInterval          timex.Duration `json:"health_probe_interval"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: the process cannot start with
// a config it was explicitly told to use.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CookieName, c.CookieName)
	setString(&config.CookieDomain, c.CookieDomain)
	setString(&config.MainDomain, c.MainDomain)
	setString(&config.StaticURL, c.StaticURL)
	setString(&config.SMTPServer, c.SMTPServer)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFromName, c.MailFromName)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.SessionTokenValidityDuration.Duration > 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.ActionTokenValidityDuration.Duration > 0 {
		config.ActionTokenValidityDuration = c.ActionTokenValidityDuration.Duration
	}
	if c.MailTimeout.Duration > 0 {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.HealthProbeInterval.Duration > 0 {
		config.HealthProbeInterval = c.HealthProbeInterval.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
