package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Company    CompanyConfig
}

// DatabaseConfig holds MySQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// MongoConfig holds MongoDB configuration (notification inbox)
type MongoConfig struct {
	URI    string
	DBName string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// SMTPConfig holds transactional mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// CloudinaryConfig holds file storage configuration
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CompanyConfig holds the association identity printed on shipping labels
type CompanyConfig struct {
	Name    string
	Address string
	Phone   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		Database:   loadDatabaseConfig(appMode),
		Mongo:      loadMongoConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		SMTP:       loadSMTPConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Company:    loadCompanyConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func prefixFor(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := prefixFor(mode)
	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "spsc_alumni"),
	}
}

func loadMongoConfig(mode string) MongoConfig {
	prefix := prefixFor(mode)
	return MongoConfig{
		URI:    getEnv(prefix+"MONGO_URI", "mongodb://localhost:27017"),
		DBName: getEnv(prefix+"MONGO_DB_NAME", "spsc_alumni"),
	}
}

func loadJWTConfig(mode string) JWTConfig {
	prefix := prefixFor(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

func loadCookieConfig(mode string) CookieConfig {
	prefix := prefixFor(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadSMTPConfig() SMTPConfig {
	port, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     port,
		Username: getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASS", ""),
		From:     getEnv("SMTP_FROM", "alumni@spsc.ac.th"),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "alumni"),
	}
}

func loadCompanyConfig() CompanyConfig {
	return CompanyConfig{
		Name:    getEnv("COMPANY_NAME", "สมาคมศิษย์เก่าวิทยาลัยอาชีวศึกษา"),
		Address: getEnv("COMPANY_ADDRESS", ""),
		Phone:   getEnv("COMPANY_PHONE", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://alumni.spsc.ac.th"
	}
	return origins
}
