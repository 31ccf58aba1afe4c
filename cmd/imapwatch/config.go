package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// config holds the connection settings read from the environment.
type config struct {
	Host     string
	Port     int
	Username string
	Password string
	Mailbox  string
	Security string
	Auth     string
}

// loadConfig reads the connection settings from the environment, after
// loading the optional .env file.
func loadConfig(envFile string) config {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Fatalf("Failed to load %v", envFile)
	}

	port, err := strconv.Atoi(getEnv("IMAP_PORT", "993"))
	if err != nil {
		logrus.WithError(err).Fatal("Invalid IMAP_PORT")
	}
	return config{
		Host:     getEnv("IMAP_HOST", "localhost"),
		Port:     port,
		Username: os.Getenv("IMAP_USERNAME"),
		Password: os.Getenv("IMAP_PASSWORD"),
		Mailbox:  getEnv("IMAP_MAILBOX", "INBOX"),
		Security: getEnv("IMAP_SECURITY", "tls"),
		Auth:     getEnv("IMAP_AUTH", "login"),
	}
}

// getEnv returns the value of the environment variable named by the key.
// If the variable is not set, it returns the fallback value.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
