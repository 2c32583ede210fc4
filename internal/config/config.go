package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	Host  string
	IsVCR bool

	StoragePath string

	APIKey        string
	APISecret     string
	ApplicationID string
	PrivateKey    string

	MessagesAPIURL string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
}

func LoadConfig() *Config {
	// On the VCR cloud runtime all config comes from the environment.
	if os.Getenv("VCR_PORT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file")
		}
	}

	privateKey := getEnv("VONAGE_PRIVATE_KEY", "")
	if keyPath := getEnv("VONAGE_PRIVATE_KEY_PATH", ""); privateKey == "" && keyPath != "" {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			log.Printf("Warning: cannot read private key file %s: %v", keyPath, err)
		} else {
			privateKey = string(data)
		}
	}

	return &Config{
		Port:  getEnv("VCR_PORT", getEnv("PORT", "3000")),
		Host:  getEnv("VCR_HOST", getEnv("HOST", "0.0.0.0")),
		IsVCR: os.Getenv("VCR_PORT") != "",

		StoragePath: getEnv("STORAGE_PATH", ""),

		APIKey:        getEnv("VONAGE_API_KEY", ""),
		APISecret:     getEnv("VONAGE_API_SECRET", ""),
		ApplicationID: getEnv("VONAGE_APPLICATION_ID", ""),
		PrivateKey:    privateKey,

		MessagesAPIURL: getEnv("MESSAGES_API_URL", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./rcs-gateway.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "rcs_gateway"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// StorageCandidates lists the storage roots to probe, most preferred first.
// The VCR runtime mounts /neru-data as its only persistent volume.
func (c *Config) StorageCandidates() []string {
	if c.StoragePath != "" {
		return []string{c.StoragePath}
	}
	if c.IsVCR {
		return []string{"/neru-data", "/tmp/rcs-data", "./data"}
	}
	return []string{"./data"}
}

// TemplatesFile is the template store location under a resolved storage root.
func TemplatesFile(storagePath string) string {
	return filepath.Join(storagePath, "templates.json")
}

// UploadsDir is the uploads directory under a resolved storage root.
func UploadsDir(storagePath string) string {
	return filepath.Join(storagePath, "uploads")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
