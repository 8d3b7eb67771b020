package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Port string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr string
}

// FirebaseConfig identifies the identity-provider tenant. AdminAPIKey is
// optional; when absent the managed-identity operations are disabled and
// employee provisioning falls back to local records only.
type FirebaseConfig struct {
	ProjectID   string
	AdminAPIKey string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type PaymentConfig struct {
	ClientID     string
	ClientSecret string
}

func (p PaymentConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type MediaConfig struct {
	KeyID  string
	Secret string
}

func (m MediaConfig) Enabled() bool {
	return m.KeyID != "" && m.Secret != ""
}

// KeepAliveConfig drives the optional self-ping loop that keeps free-tier
// hosts from idling the process out.
type KeepAliveConfig struct {
	URL      string
	Interval time.Duration
}

type CertificateConfig struct {
	RenderURL string
}

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Firebase    FirebaseConfig
	Kafka       KafkaConfig
	Payment     PaymentConfig
	Media       MediaConfig
	KeepAlive   KeepAliveConfig
	Certificate CertificateConfig
}

const (
	DefaultServerPort        = "3000"
	DefaultMongoDB           = "traindesk"
	DefaultKafkaTopic        = "traindesk.domain.v1"
	DefaultKeepAliveInterval = 14 * time.Minute
)

// New reads the full configuration from the environment.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", DefaultServerPort),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Firebase: FirebaseConfig{
			ProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
			AdminAPIKey: os.Getenv("FIREBASE_ADMIN_API_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		},
		Payment: PaymentConfig{
			ClientID:     os.Getenv("PAYMENT_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYMENT_CLIENT_SECRET"),
		},
		Media: MediaConfig{
			KeyID:  os.Getenv("MEDIA_KEY_ID"),
			Secret: os.Getenv("MEDIA_SECRET"),
		},
		KeepAlive: KeepAliveConfig{
			URL:      os.Getenv("KEEP_ALIVE_URL"),
			Interval: getEnvDuration("KEEP_ALIVE_INTERVAL_MIN", DefaultKeepAliveInterval),
		},
		Certificate: CertificateConfig{
			RenderURL: os.Getenv("CERTIFICATE_RENDER_URL"),
		},
	}
}

// Validate reports the first missing required option. The process must not
// start without a store or an identity-provider tenant.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.Firebase.ProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if mins, err := strconv.Atoi(value); err == nil && mins > 0 {
			return time.Duration(mins) * time.Minute
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
