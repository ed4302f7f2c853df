package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Editor   EditorConfig
	Site     SiteConfig
	Settings SettingsConfig
	Notice   NoticeConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// StoreConfig selects the document store backend.
// Mode is one of "memory", "postgres" or "remote".
type StoreConfig struct {
	Mode       string
	RemoteAddr string
	NodeID     int64
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig is optional; an empty Addr disables the change bus.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// KafkaConfig is optional; no brokers means public submissions are written directly.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// ElasticsearchConfig is optional; no addresses means seller search runs on the mirror.
type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

type EditorConfig struct {
	AutoSaveDelay time.Duration
	SaveTimeout   time.Duration
}

type SiteConfig struct {
	PreviewOrigin string
	Name          string
}

type SettingsConfig struct {
	Dir string
}

// NoticeConfig lists extra message catalogs, e.g. locales/active.id.json.
type NoticeConfig struct {
	Catalogs []string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			Mode:       getEnv("STORE_MODE", "memory"),
			RemoteAddr: getEnv("STORE_REMOTE_ADDR", "localhost:8082"),
			NodeID:     int64(getEnvInt("STORE_NODE_ID", -1)),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_seller_cms"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANGE_CHANNEL", "docstore:changes"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_INTAKE", "seller-platform.intake"),
			GroupID: getEnv("KAFKA_GROUP_INTAKE", "seller-cms-intake"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", nil),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_SELLER_INDEX", "sellers"),
		},
		Editor: EditorConfig{
			AutoSaveDelay: getEnvDuration("EDITOR_AUTOSAVE_DELAY", 2*time.Second),
			SaveTimeout:   getEnvDuration("EDITOR_SAVE_TIMEOUT", 15*time.Second),
		},
		Site: SiteConfig{
			PreviewOrigin: getEnv("PREVIEW_ORIGIN", "https://surf-seller-page.vercel.app"),
			Name:          getEnv("SITE_NAME", "SurfApp"),
		},
		Settings: SettingsConfig{
			Dir: getEnv("SETTINGS_DIR", ".local-storage"),
		},
		Notice: NoticeConfig{
			Catalogs: getEnvSlice("NOTICE_CATALOGS", nil),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return strings.Split(value, ",")
	}
	return fallback
}
