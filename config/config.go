package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	OAuth      OAuthConfig      `mapstructure:"oauth"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Firebase   FirebaseConfig   `mapstructure:"firebase"`
	PayU       PayUConfig       `mapstructure:"payu"`
	Business   BusinessConfig   `mapstructure:"business"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	BaseURL      string        `mapstructure:"base_url"` // public URL for gateway callbacks
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	PaymentSettled      string `mapstructure:"payment_settled"`
	InvestmentCompleted string `mapstructure:"investment_completed"`
	ReferralCredited    string `mapstructure:"referral_credited"`
	PaymentReconcile    string `mapstructure:"payment_reconcile"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer        string        `mapstructure:"issuer"`
}

type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	GoogleRedirectURL  string `mapstructure:"google_redirect_url"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

type FirebaseConfig struct {
	ServiceAccountPath string `mapstructure:"service_account_path"`
}

// PayUConfig for the PayU hosted checkout (form POST + SHA-512 hash).
type PayUConfig struct {
	MerchantKey string `mapstructure:"merchant_key"`
	Salt        string `mapstructure:"salt"`
	BaseURL     string `mapstructure:"base_url"` // https://test.payu.in or https://secure.payu.in
}

type BusinessConfig struct {
	JoiningBonusQP     int64 `mapstructure:"joining_bonus_qp"`
	ReferredTopUpQP    int64 `mapstructure:"referred_top_up_qp"`
	ReferrerBonusQP    int64 `mapstructure:"referrer_bonus_qp"`
	ReferralExpiryDays int   `mapstructure:"referral_expiry_days"`
	PaymentExpiryHours int   `mapstructure:"payment_expiry_hours"`
	CompanyRegFeeQP    int64 `mapstructure:"company_registration_fee_qp"`
	MaxRetryCount      int   `mapstructure:"max_retry_count"` // outbox publish retries
}

// Load reads config.yaml and applies QIPAD_* environment overrides
// (e.g. QIPAD_DATABASE_DSN).
func Load(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("qipad")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("[config] %v, using defaults and env", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("[config] unmarshal failed: %v", err)
	}
	return cfg
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")

	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", "1h")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topic.payment_settled", "qipad.payment.settled")
	viper.SetDefault("kafka.topic.investment_completed", "qipad.investment.completed")
	viper.SetDefault("kafka.topic.referral_credited", "qipad.referral.credited")

	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")
	viper.SetDefault("jwt.issuer", "qipad")

	viper.SetDefault("payu.base_url", "https://test.payu.in")

	viper.SetDefault("business.joining_bonus_qp", 10)
	viper.SetDefault("business.referred_top_up_qp", 20)
	viper.SetDefault("business.referrer_bonus_qp", 50)
	viper.SetDefault("business.referral_expiry_days", 90)
	viper.SetDefault("business.payment_expiry_hours", 24)
	viper.SetDefault("business.company_registration_fee_qp", 200)
	viper.SetDefault("business.max_retry_count", 3)
}
