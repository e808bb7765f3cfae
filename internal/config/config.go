package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DBUser        string `env:"DB_USER,required"`
	DBPassword    string `env:"DB_PASSWORD,required"`
	DBHost        string `env:"DB_HOST,required"` // hostname, or a unix socket dir like /cloudsql/instance
	DBName        string `env:"DB_NAME,required"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	StorageBucket string `env:"STORAGE_BUCKET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
