package config

import (
	"log"
	"strings"
	"time"

	"go-job-intake/pkg/email"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	Port        string `mapstructure:"PORT"`
	DBUrl       string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	// Session configuration
	SessionSecret      string `mapstructure:"SESSION_SECRET"`
	SessionTTLMinutes  int    `mapstructure:"SESSION_TTL_MINUTES"`
	SessionIdleMinutes int    `mapstructure:"SESSION_IDLE_MINUTES"`
	// Document storage: "s3" or "cloudinary"
	StorageProvider   string `mapstructure:"STORAGE_PROVIDER"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	CloudinaryName    string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey     string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinarySecret  string `mapstructure:"CLOUDINARY_API_SECRET"`
	MaxDocumentMB     int    `mapstructure:"MAX_DOCUMENT_MB"`
	// Redis/Upstash Configuration
	UpstashRedisURL      string `mapstructure:"UPSTASH_REDIS_URL"`
	UpstashRedisPassword string `mapstructure:"UPSTASH_REDIS_PASSWORD"`
	// Rate limiting, requests per client per minute
	SubmitRateLimitPerMinute int `mapstructure:"SUBMIT_RATE_LIMIT_PER_MINUTE"`
	UploadRateLimitPerMinute int `mapstructure:"UPLOAD_RATE_LIMIT_PER_MINUTE"`
	// Submission events
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
	// Admin export
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`
	// Applicant confirmation email, disabled when SMTP_HOST is empty
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	// clamd address, "host:port" or a unix socket path
	ClamAVAddress string `mapstructure:"CLAMAV_ADDRESS"`
	// Uploads per session per hour
	UploadQuotaPerSession int `mapstructure:"UPLOAD_QUOTA_PER_SESSION"`
}

var defaults = map[string]any{
	"APP_ENV":                      "development",
	"PORT":                         "8080",
	"DATABASE_URL":                 "",
	"FRONTEND_URL":                 "http://localhost:3000",
	"SESSION_SECRET":               "",
	"SESSION_TTL_MINUTES":          60,
	"SESSION_IDLE_MINUTES":         30,
	"STORAGE_PROVIDER":             "s3",
	"S3_ENDPOINT":                  "",
	"S3_REGION":                    "us-east-1",
	"S3_ACCESS_KEY_ID":             "",
	"S3_SECRET_ACCESS_KEY":         "",
	"S3_BUCKET":                    "job-documents",
	"CLOUDINARY_CLOUD_NAME":        "",
	"CLOUDINARY_API_KEY":           "",
	"CLOUDINARY_API_SECRET":        "",
	"MAX_DOCUMENT_MB":              10,
	"UPSTASH_REDIS_URL":            "",
	"UPSTASH_REDIS_PASSWORD":       "",
	"SUBMIT_RATE_LIMIT_PER_MINUTE": 5,
	"UPLOAD_RATE_LIMIT_PER_MINUTE": 20,
	"KAFKA_BROKERS":                "",
	"KAFKA_TOPIC":                  "job-applications.submitted",
	"ADMIN_API_KEY":                "",
	"SMTP_HOST":                    "",
	"SMTP_PORT":                    "587",
	"SMTP_USERNAME":                "",
	"SMTP_PASSWORD":                "",
	"SMTP_FROM":                    "",
	"CLAMAV_ADDRESS":               "",
	"UPLOAD_QUOTA_PER_SESSION":     30,
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.StorageProvider = strings.ToLower(strings.TrimSpace(cfg.StorageProvider))

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Submissions will fail to persist.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.SessionSecret == "" {
		log.Println("WARNING: SESSION_SECRET is empty. Session tokens are signed with an ephemeral key.")
	}
	if cfg.KafkaBrokers == "" {
		log.Println("WARNING: KAFKA_BROKERS not configured. Submission events will not be published.")
	}
	if cfg.ClamAVAddress == "" {
		log.Println("WARNING: CLAMAV_ADDRESS not configured. Uploaded documents will not be scanned for malware.")
	}

	return cfg, nil
}

// KafkaBrokerList splits the comma separated broker list.
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

func (c *Config) MaxDocumentBytes() int64 {
	return int64(c.MaxDocumentMB) << 20
}

func (c *Config) SMTPConfig() email.SMTPConfig {
	return email.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
