package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vkuzn/sessiond/internal/flagx"
	"github.com/vkuzn/sessiond/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Duration fields
// accept either "1h" strings or integer nanoseconds via timex.Duration.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	AccessSecret     string         `json:"access_secret"`
	RefreshSecret    string         `json:"refresh_secret"`
	AccessTokenTTL   timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL  timex.Duration `json:"refresh_token_ttl"`
	ValidateTokenTTL timex.Duration `json:"validate_token_ttl"`
	BcryptCost       int            `json:"bcrypt_cost"`
	SMTPHost         string         `json:"smtp_host"`
	SMTPPort         int            `json:"smtp_port"`
	SMTPUsername     string         `json:"smtp_username"`
	SMTPPassword     string         `json:"smtp_password"`
	MailFrom         string         `json:"mail_from"`
	MailFromName     string         `json:"mail_from_name"`
	ValidateURLBase  string         `json:"validate_url_base"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// An unreadable or malformed file is a startup error and panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessSecret != "" {
		config.AccessSecret = c.AccessSecret
	}
	if c.RefreshSecret != "" {
		config.RefreshSecret = c.RefreshSecret
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	}
	if c.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = time.Duration(c.RefreshTokenTTL.Duration)
	}
	if c.ValidateTokenTTL.Duration != 0 {
		config.ValidateTokenTTL = time.Duration(c.ValidateTokenTTL.Duration)
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUsername != "" {
		config.SMTPUsername = c.SMTPUsername
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.MailFrom != "" {
		config.MailFrom = c.MailFrom
	}
	if c.MailFromName != "" {
		config.MailFromName = c.MailFromName
	}
	if c.ValidateURLBase != "" {
		config.ValidateURLBase = c.ValidateURLBase
	}
}
