package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Tracing  TracingConfig
	Lookup   LookupConfig
	Order    OrderConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
	GRPCPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
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

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers        []string
	InventoryTopic string
	OrderTopic     string
	PerkTopic      string
	GroupID        string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

type TracingConfig struct {
	Exporter     string
	OTLPEndpoint string
	SampleRatio  float64
}

type LookupConfig struct {
	OpenFoodFactsURL string
	TimeoutSeconds   int
}

type OrderConfig struct {
	ServiceFeeRate float64
	MinServiceFee  float64
	DeliveryFee    float64
}

var defaults = map[string]any{
	"APP_ENV":   "dev",
	"HTTP_PORT": ":8080",
	"GRPC_PORT": ":8082",

	"LOGGER_LEVEL":              "debug",
	"LOGGER_ENCODING":           "console",
	"LOGGER_DISABLE_CALLER":     false,
	"LOGGER_DISABLE_STACKTRACE": true,

	"POSTGRES_HOST":               "localhost",
	"POSTGRES_PORT":               "5433",
	"POSTGRES_USER":               "wlpl",
	"POSTGRES_PASSWORD":           "wlpl",
	"POSTGRES_DB":                 "wlpl",
	"POSTGRES_SSLMODE":            "disable",
	"POSTGRES_MAX_OPEN_CONNS":     10,
	"POSTGRES_MAX_IDLE_CONNS":     5,
	"POSTGRES_CONN_MAX_LIFETIME":  300,
	"POSTGRES_CONN_MAX_IDLE_TIME": 60,

	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"KAFKA_BROKERS":         "localhost:9092",
	"KAFKA_TOPIC_INVENTORY": "inventory.events",
	"KAFKA_TOPIC_ORDERS":    "orders.events",
	"KAFKA_TOPIC_PERKS":     "perks.events",
	"KAFKA_GROUP_SHOPPING":  "shopping",

	"ELASTICSEARCH_ADDRESSES": "http://localhost:9200",
	"ELASTICSEARCH_USERNAME":  "",
	"ELASTICSEARCH_PASSWORD":  "",

	"TRACING_EXPORTER":     "",
	"OTLP_ENDPOINT":        "localhost:4317",
	"TRACING_SAMPLE_RATIO": 1.0,

	"OPENFOODFACTS_URL":      "https://world.openfoodfacts.org",
	"LOOKUP_TIMEOUT_SECONDS": 12,

	"ORDER_SERVICE_FEE_RATE": 0.10,
	"ORDER_MIN_SERVICE_FEE":  2.00,
	"ORDER_DELIVERY_FEE":     5.99,
}

// LoadEnv reads configuration from the process environment. Call godotenv.Load
// beforehand to pick up a .env file.
func LoadEnv() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			AppEnv:   v.GetString("APP_ENV"),
			HTTPPort: normalizePort(v.GetString("HTTP_PORT")),
			GRPCPort: normalizePort(v.GetString("GRPC_PORT")),
		},
		Logger: LoggerConfig{
			Level:             v.GetString("LOGGER_LEVEL"),
			Encoding:          v.GetString("LOGGER_ENCODING"),
			DisableCaller:     v.GetBool("LOGGER_DISABLE_CALLER"),
			DisableStacktrace: v.GetBool("LOGGER_DISABLE_STACKTRACE"),
		},
		Postgres: PostgresConfig{
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			DBName:          v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetInt("POSTGRES_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetInt("POSTGRES_CONN_MAX_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(v.GetString("KAFKA_BROKERS")),
			InventoryTopic: v.GetString("KAFKA_TOPIC_INVENTORY"),
			OrderTopic:     v.GetString("KAFKA_TOPIC_ORDERS"),
			PerkTopic:      v.GetString("KAFKA_TOPIC_PERKS"),
			GroupID:        v.GetString("KAFKA_GROUP_SHOPPING"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: splitList(v.GetString("ELASTICSEARCH_ADDRESSES")),
			Username:  v.GetString("ELASTICSEARCH_USERNAME"),
			Password:  v.GetString("ELASTICSEARCH_PASSWORD"),
		},
		Tracing: TracingConfig{
			Exporter:     v.GetString("TRACING_EXPORTER"),
			OTLPEndpoint: v.GetString("OTLP_ENDPOINT"),
			SampleRatio:  v.GetFloat64("TRACING_SAMPLE_RATIO"),
		},
		Lookup: LookupConfig{
			OpenFoodFactsURL: v.GetString("OPENFOODFACTS_URL"),
			TimeoutSeconds:   v.GetInt("LOOKUP_TIMEOUT_SECONDS"),
		},
		Order: OrderConfig{
			ServiceFeeRate: v.GetFloat64("ORDER_SERVICE_FEE_RATE"),
			MinServiceFee:  v.GetFloat64("ORDER_MIN_SERVICE_FEE"),
			DeliveryFee:    v.GetFloat64("ORDER_DELIVERY_FEE"),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "dev" || c.Server.AppEnv == "development"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
