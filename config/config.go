// Package config loads the connection configuration for the dialect layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the connection configuration
type Config struct {
	Database   string
	Hostname   string
	Port       int
	Username   string
	Password   string
	Schema     string
	DriverName string
}

// Load loads configuration from config files and the environment
func Load() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set config file paths
	v := viper.New()
	v.SetConfigName(".db2-go")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "db2-go"))

	// Set environment variable prefix
	v.SetEnvPrefix("DB2GO")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("hostname", "localhost")
	v.SetDefault("port", 50000)
	v.SetDefault("driver_name", "go_ibm_db")

	// Try to read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Database:   v.GetString("database"),
		Hostname:   v.GetString("hostname"),
		Port:       v.GetInt("port"),
		Username:   v.GetString("username"),
		Password:   v.GetString("password"),
		Schema:     v.GetString("schema"),
		DriverName: v.GetString("driver_name"),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" && cfg.Database == "" {
		cfg.Database = url
	}

	return cfg, nil
}

// DSN builds the keyword connection string the DB2 CLI driver expects.
func (c *Config) DSN() string {
	parts := []string{
		fmt.Sprintf("DATABASE=%s", c.Database),
		fmt.Sprintf("HOSTNAME=%s", c.Hostname),
		fmt.Sprintf("PORT=%d", c.Port),
		"PROTOCOL=TCPIP",
	}
	if c.Username != "" {
		parts = append(parts, fmt.Sprintf("UID=%s", c.Username))
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("PWD=%s", c.Password))
	}
	if c.Schema != "" {
		parts = append(parts, fmt.Sprintf("CURRENTSCHEMA=%s", c.Schema))
	}
	return strings.Join(parts, ";")
}
