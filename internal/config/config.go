package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string   `env:"HTTP_PORT" envDefault:"5000"`
	DatabaseURL        string   `env:"DATABASE_URL,required"`
	ProviderURL        string   `env:"PROVIDER_URL"`
	ProviderServiceKey string   `env:"PROVIDER_SERVICE_KEY"`
	AuthDevSecret      string   `env:"AUTH_DEV_SECRET" envDefault:"dev-secret"`
	AdminEmails        []string `env:"ADMIN_EMAILS" envSeparator:","`
	FrontendURL        string   `env:"FRONTEND_URL" envDefault:"http://localhost:8080"`
	RedisAddr          string   `env:"REDIS_ADDR"`
	RedisPassword      string   `env:"REDIS_PASSWORD"`
	RedisDB            int      `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
