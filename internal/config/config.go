package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Server struct {
		Port                int      `mapstructure:"port"`
		CorsAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods  []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders  []string `mapstructure:"cors_allowed_headers"`
		ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int    `mapstructure:"max_conns"`
		MinConns int    `mapstructure:"min_conns"`
	} `mapstructure:"database"`

	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`

	Facility struct {
		Name     string `mapstructure:"name"`
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"facility"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Binary works without a config file
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "coffee_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("store.driver", StorePostgres)
	v.SetDefault("facility.name", "Armazém de Café")
	v.SetDefault("facility.timezone", "America/Sao_Paulo")
}

// applyEnvOverrides lets DB_* and STORE_DRIVER win over the config file.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" || cfg.Database.Password == "${DB_PASSWORD}" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if mode := os.Getenv("DB_SSLMODE"); mode != "" {
		cfg.Database.SSLMode = mode
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
}
