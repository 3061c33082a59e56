package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBTypeMongo    = "mongo"
	DBTypePostgres = "postgres"

	RendererChrome = "chrome"
	RendererFPDF   = "fpdf"
)

type Config struct {
	DBType      string
	MongoURL    string
	MongoDB     string
	PostgresURL string
	Port        string

	LogLevel  string
	LogFormat string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	WhatsAppURL  string
	WhatsAppUser string
	WhatsAppPass string
	WhatsAppPath string

	PDFRenderer string

	R2Bucket          string
	R2AccountID       string
	R2PublicURL       string
	R2AccessKeyID     string
	R2SecretAccessKey string

	AdminName     string
	AdminEmail    string
	AdminPassword string

	CompanyName    string
	CompanyAddress string
	CompanyGSTIN   string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBType:      strings.ToLower(getEnvStr("DB_TYPE", DBTypeMongo)),
		MongoURL:    getEnvStr("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnvStr("MONGO_DB", "bharatparcel"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		Port:        getEnvStr("PORT", "8080"),

		LogLevel:  getEnvStr("LOG_LEVEL", "info"),
		LogFormat: getEnvStr("LOG_FORMAT", "json"),

		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 10*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		SMTPHost: getEnvStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnvNum("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),

		WhatsAppURL:  os.Getenv("WHATSAPP_URL"),
		WhatsAppUser: os.Getenv("WHATSAPP_USER"),
		WhatsAppPass: os.Getenv("WHATSAPP_PASS"),
		WhatsAppPath: getEnvStr("WHATSAPP_PATH", "api"),

		PDFRenderer: strings.ToLower(getEnvStr("PDF_RENDERER", RendererFPDF)),

		R2Bucket:          os.Getenv("R2_BUCKET"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),

		AdminName:     getEnvStr("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CompanyName:    getEnvStr("COMPANY_NAME", "Bharat Parcel Services Pvt.Ltd."),
		CompanyAddress: getEnvStr("COMPANY_ADDRESS", "332, Kucha Ghasi Ram, Chandni Chowk, Fatehpuri, Delhi -110006"),
		CompanyGSTIN:   getEnvStr("COMPANY_GSTIN", "07AAECB6506F1ZY"),
	}
}

// Validate collects every configuration problem into a single error.
func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.DBType {
	case DBTypeMongo:
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURL) {
			problems = append(problems, "MONGO_URL must start with 'mongodb://' or 'mongodb+srv://'")
		}
		if cfg.MongoDB == "" {
			problems = append(problems, "MONGO_DB cannot be empty")
		}
	case DBTypePostgres:
		if cfg.PostgresURL == "" {
			problems = append(problems, "POSTGRES_URL cannot be empty when DB_TYPE=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("DB_TYPE not supported: %s", cfg.DBType))
	}

	if cfg.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	if cfg.JWTTTL <= 0 {
		problems = append(problems, fmt.Sprintf("JWT_TTL must be positive, got: %s", cfg.JWTTTL))
	}
	if cfg.ReadTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("READ_TIMEOUT must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("WRITE_TIMEOUT must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.AdminEmail != "" && len(cfg.AdminPassword) < 6 {
		problems = append(problems, "ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
	}
	if cfg.PDFRenderer != RendererChrome && cfg.PDFRenderer != RendererFPDF {
		problems = append(problems, fmt.Sprintf("PDF_RENDERER must be 'chrome' or 'fpdf', got: %s", cfg.PDFRenderer))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) EmailEnabled() bool {
	return cfg.SMTPUser != "" && cfg.SMTPPass != ""
}

func (cfg *Config) WhatsAppEnabled() bool {
	return cfg.WhatsAppURL != ""
}

func (cfg *Config) R2Enabled() bool {
	return cfg.R2Bucket != "" && cfg.R2AccountID != "" && cfg.R2PublicURL != ""
}

// RedactedMongoURL hides credentials for logging.
func (cfg *Config) RedactedMongoURL() string {
	re := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return re.ReplaceAllString(cfg.MongoURL, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
