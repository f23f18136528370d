package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the payments API
type Config struct {
	// Server
	HTTPPort         string
	CORSAllowOrigins string

	// Data source selection. The service runs against DynamoDB when it is
	// deployed to a managed environment, signalled by the Lambda function
	// name variable being present.
	LambdaFunctionName string

	// Local store
	LocalDataPath string

	// DynamoDB
	PaymentsTable string
	AWSRegion     string

	// Redis cache (optional, enabled when RedisAddr is set)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Kafka (optional, enabled when KafkaBrokers is set)
	KafkaBrokers       string
	KafkaConsumerGroup string
	KafkaTopicChanged  string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),

		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		LocalDataPath: getEnv("PAYMENTS_DATA_PATH", "data/payments.json"),

		PaymentsTable: getEnv("PAYMENTS_TABLE_NAME", "PaymentsTable"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("PAYMENTS_CACHE_TTL", 30*time.Second),

		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "payments-api"),
		KafkaTopicChanged:  getEnv("KAFKA_TOPIC_CHANGED", "payments.changed"),
	}
}

// UseRemoteStore reports whether the remote table store should back the
// service. Selection depends only on the environment signal, never on data.
func (c *Config) UseRemoteStore() bool {
	return c.LambdaFunctionName != ""
}

// DataSourceLabel is the human label identifying which backend answers.
func (c *Config) DataSourceLabel() string {
	if c.UseRemoteStore() {
		return "DynamoDB"
	}
	return "Local JSON"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
