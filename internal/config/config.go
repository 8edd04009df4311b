package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env             string        `mapstructure:"env"`
		Port            string        `mapstructure:"port"`
		StaticDir       string        `mapstructure:"static_dir"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"app"`
	Store struct {
		Driver   string `mapstructure:"driver"`
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"store"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr       string        `mapstructure:"addr"`
		Password   string        `mapstructure:"password"`
		CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	AI struct {
		GeminiAPIKey string `mapstructure:"gemini_api_key"`
	} `mapstructure:"ai"`
	Otel struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"otel"`
}

// LoadConfig reads .env and config.yaml from the given directories (the
// working directory when none are given), then applies environment overrides.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, filepath.Join(p, ".env"))
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT", "PORT")
	v.BindEnv("app.static_dir", "APP_STATIC_DIR")
	v.BindEnv("app.shutdown_timeout", "APP_SHUTDOWN_TIMEOUT")
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("store.uri", "MONGO_URI")
	v.BindEnv("store.database", "STORE_DATABASE")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.catalog_ttl", "REDIS_CATALOG_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.bcrypt_cost", "AUTH_BCRYPT_COST")
	v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("otel.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("cannot decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitBrokers(cfg.Kafka.Brokers)

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.static_dir", "static")
	v.SetDefault("app.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.database", "virtual_study_partner")
	v.SetDefault("redis.catalog_ttl", 5*time.Minute)
	v.SetDefault("kafka.group_id", "video-view-recorder")
	v.SetDefault("auth.bcrypt_cost", 12)
}

// splitBrokers accepts both a YAML list and a comma separated env value.
func splitBrokers(raw []string) []string {
	brokers := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, b := range strings.Split(entry, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	return brokers
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.URI == "" {
			return errors.New("config: MONGO_URI is required for the mongo store")
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("config: DB_DSN is required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.App.Port == "" {
		return errors.New("config: app port is empty")
	}
	return nil
}
