package config

import (
	"fmt"
	"net/http"
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

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type Config struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	ClientOrigins []string

	StorageDriver string
	Mongo         MongoConfig
	Postgres      DBConfig
	Redis         RedisConfig
	CacheTTL      time.Duration
	MaxRetries    int

	RabbitMQURL string

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel string
	LogFile  string
}

// Load reads .env (when present) and app.yaml from the working directory.
// Every key can be overridden by BLOGHUB_<KEY> with dots and dashes as underscores.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("bloghub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("app")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Port:          v.GetString("app.port"),
		ReadTimeout:   v.GetDuration("app.read-timeout"),
		WriteTimeout:  v.GetDuration("app.write-timeout"),
		ClientOrigins: v.GetStringSlice("client.origin"),
		StorageDriver: strings.ToLower(v.GetString("storage.driver")),
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		Postgres: DBConfig{
			Username: v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			DBName:   v.GetString("postgres.database"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CacheTTL:    v.GetDuration("cache.ttl"),
		MaxRetries:  v.GetInt("store.max-retries"),
		RabbitMQURL: v.GetString("rabbitmq.url"),
		JWTSecret:   v.GetString("jwt.secret"),
		TokenTTL:    v.GetDuration("jwt.ttl"),
		LogLevel:    v.GetString("log.level"),
		LogFile:     v.GetString("log.file"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.read-timeout", 10*time.Second)
	v.SetDefault("app.write-timeout", 10*time.Second)
	v.SetDefault("client.origin", []string{"http://localhost:5173"})
	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "bloghub")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("store.max-retries", 3)
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("jwt.secret is required")
	}

	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}

	return nil
}
