package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// JWTSecret is used directly when set. JWTSecretName points at a Google
	// Secret Manager resource and takes precedence in deployed environments.
	JWTSecret            string `envconfig:"JWT_SECRET"`
	JWTSecretName        string `envconfig:"JWT_SECRET_NAME"`
	JWTIssuer            string `envconfig:"JWT_ISS" default:"meal-arb"`
	JWTAudience          string `envconfig:"JWT_AUD" default:"meal-arb-web"`
	JWTExpireMin         int    `envconfig:"JWT_EXPIRE_MIN" default:"120"`
	JWTRememberExpireMin int    `envconfig:"JWT_REMEMBER_EXPIRE_MIN" default:"43200"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:5500,http://127.0.0.1:5500"`

	// Optional seed account created at startup with the admin role.
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	// Optional Pub/Sub mirror for marketplace events.
	GCPProjectID string `envconfig:"GCP_PROJECT_ID"`
	EventTopic   string `envconfig:"EVENT_TOPIC" default:"marketplace-events"`

	// Optional S3-compatible storage for item listing images.
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN builds the Postgres connection string for pgx.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
