package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	Env               string        `mapstructure:"ENV"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	StaffTokenTTL     time.Duration `mapstructure:"STAFF_TOKEN_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string        `mapstructure:"CORS_ORIGINS"`

	// Redis configuration.
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB   int           `mapstructure:"REDIS_QUEUE_DB"`
	StatusCacheTTL time.Duration `mapstructure:"STATUS_CACHE_TTL"`

	// Static staff credentials. Password hashes are bcrypt.
	SalesEmail        string `mapstructure:"SALES_EMAIL"`
	SalesPasswordHash string `mapstructure:"SALES_PASSWORD_HASH"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	// Uploads.
	UploadDir           string `mapstructure:"UPLOAD_DIR"`
	UploadMaxBytes      int64  `mapstructure:"UPLOAD_MAX_BYTES"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`
	Currency  string `mapstructure:"CURRENCY"`

	// Push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	SalesTopic              string `mapstructure:"SALES_TOPIC"`

	// Domain events.
	EventsDriver      string `mapstructure:"EVENTS_DRIVER"`
	KafkaBrokers      string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic        string `mapstructure:"KAFKA_TOPIC"`
	NATSURL           string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix string `mapstructure:"NATS_SUBJECT_PREFIX"`

	// Booking rules.
	ReferenceTimezone string `mapstructure:"REFERENCE_TIMEZONE"`
	OfferValidDays    int    `mapstructure:"OFFER_VALID_DAYS"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "villastay")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("STAFF_TOKEN_TTL", 12*time.Hour)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("STATUS_CACHE_TTL", 5*time.Second)
	viper.SetDefault("SALES_EMAIL", "")
	viper.SetDefault("SALES_PASSWORD_HASH", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "villas")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("SALES_TOPIC", "sales-requests")
	viper.SetDefault("EVENTS_DRIVER", "none")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "villastay.bookings")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("NATS_SUBJECT_PREFIX", "villastay")
	viper.SetDefault("REFERENCE_TIMEZONE", "UTC")
	viper.SetDefault("OFFER_VALID_DAYS", 7)
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// KafkaBrokerList splits the comma separated KAFKA_BROKERS value.
func (c Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CORSOriginList splits the comma separated CORS_ORIGINS value.
func (c Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// ReferenceLocation resolves REFERENCE_TIMEZONE, falling back to UTC.
func (c Config) ReferenceLocation() *time.Location {
	if c.ReferenceTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		log.Printf("Unknown REFERENCE_TIMEZONE %q, using UTC", c.ReferenceTimezone)
		return time.UTC
	}
	return loc
}
