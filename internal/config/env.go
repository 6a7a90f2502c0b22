package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset variables
// leave the current value alone; malformed numeric/duration values are
// ignored rather than fatal, matching flag behavior.
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("ACCESS_SECRET", &config.AccessSecret)
	setString("REFRESH_SECRET", &config.RefreshSecret)
	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenTTL)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenTTL)
	setDuration("VALIDATE_TOKEN_TTL", &config.ValidateTokenTTL)
	setInt("BCRYPT_COST", &config.BcryptCost)
	setString("SMTP_HOST", &config.SMTPHost)
	setInt("SMTP_PORT", &config.SMTPPort)
	setString("SMTP_USERNAME", &config.SMTPUsername)
	setString("SMTP_PASSWORD", &config.SMTPPassword)
	setString("MAIL_FROM", &config.MailFrom)
	setString("MAIL_FROM_NAME", &config.MailFromName)
	setString("VALIDATE_URL_BASE", &config.ValidateURLBase)
}
