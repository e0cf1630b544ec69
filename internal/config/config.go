package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env         string `mapstructure:"env"`
		Port        string `mapstructure:"port"`
		FrontendURL string `mapstructure:"frontend_url"`
		MaxUploadMB int64  `mapstructure:"max_upload_mb"`
	} `mapstructure:"app"`
	DB struct {
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers     []string `mapstructure:"brokers"`
		UploadTopic string   `mapstructure:"upload_topic"`
		GroupID     string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	AI struct {
		Provider      string  `mapstructure:"provider"`
		APIKey        string  `mapstructure:"api_key"`
		Model         string  `mapstructure:"model"`
		BaseURL       string  `mapstructure:"base_url"`
		RatePerMinute float64 `mapstructure:"rate_per_minute"`
		Burst         int     `mapstructure:"burst"`
	} `mapstructure:"ai"`
	Storage struct {
		Provider string `mapstructure:"provider"`
		Folder   string `mapstructure:"folder"`
	} `mapstructure:"storage"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	S3 struct {
		Bucket        string `mapstructure:"bucket"`
		Region        string `mapstructure:"region"`
		Endpoint      string `mapstructure:"endpoint"`
		AccessKey     string `mapstructure:"access_key"`
		SecretKey     string `mapstructure:"secret_key"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"s3"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
		ServiceName  string `mapstructure:"service_name"`
	} `mapstructure:"tracing"`
}

var bindings = map[string]string{
	"app.env":           "APP_ENV",
	"app.port":          "PORT",
	"app.frontend_url":  "FRONTEND_URL",
	"app.max_upload_mb": "MAX_UPLOAD_MB",

	"db.dsn":          "DB_DSN",
	"db.auto_migrate": "DB_AUTO_MIGRATE",

	"redis.addr":     "REDIS_ADDR",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"kafka.brokers":      "KAFKA_BROKERS",
	"kafka.upload_topic": "KAFKA_UPLOAD_TOPIC",
	"kafka.group_id":     "KAFKA_GROUP_ID",

	"auth.jwt_secret":     "JWT_SECRET",
	"auth.token_lifespan": "TOKEN_LIFESPAN",

	"ai.provider":        "AI_PROVIDER",
	"ai.api_key":         "GEMINI_API_KEY",
	"ai.model":           "AI_MODEL",
	"ai.base_url":        "AI_BASE_URL",
	"ai.rate_per_minute": "AI_RATE_PER_MINUTE",
	"ai.burst":           "AI_BURST",

	"storage.provider": "STORAGE_PROVIDER",
	"storage.folder":   "STORAGE_FOLDER",

	"cloudinary.cloud_name": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":    "CLOUDINARY_API_KEY",
	"cloudinary.api_secret": "CLOUDINARY_API_SECRET",

	"s3.bucket":          "S3_BUCKET",
	"s3.region":          "S3_REGION",
	"s3.endpoint":        "S3_ENDPOINT",
	"s3.access_key":      "S3_ACCESS_KEY",
	"s3.secret_key":      "S3_SECRET_KEY",
	"s3.public_base_url": "S3_PUBLIC_BASE_URL",

	"tracing.otlp_endpoint": "OTEL_EXPORTER_OTLP_ENDPOINT",
	"tracing.service_name":  "OTEL_SERVICE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5050")
	v.SetDefault("app.frontend_url", "http://localhost:5173")
	v.SetDefault("app.max_upload_mb", 5)
	v.SetDefault("kafka.upload_topic", "resume.uploaded")
	v.SetDefault("kafka.group_id", "resume-analyzer-group")
	v.SetDefault("auth.token_lifespan", 7*24*time.Hour)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.rate_per_minute", 30)
	v.SetDefault("ai.burst", 5)
	v.SetDefault("storage.provider", "cloudinary")
	v.SetDefault("storage.folder", "resumes")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("tracing.service_name", "resume-builder")
}

// LoadConfig reads config.yaml from path (optional), then .env, then the
// process environment. Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found in %q, using defaults and environment", path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range bindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}
	// KAFKA_BROKERS arrives as one comma separated string.
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}

func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn (DB_DSN) is required"))
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		errs = append(errs, errors.New("ai.provider must be gemini or openai"))
	}
	switch c.Storage.Provider {
	case "cloudinary", "s3":
	default:
		errs = append(errs, errors.New("storage.provider must be cloudinary or s3"))
	}
	return errors.Join(errs...)
}

func (c Config) MaxUploadBytes() int64 {
	return c.App.MaxUploadMB << 20
}
