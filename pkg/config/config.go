package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Graph
	GraphName string
	DataDir   string

	// Neo4j mirror (optional)
	Neo4jMirrorEnabled bool
	Neo4jURI           string
	Neo4jUser          string
	Neo4jPassword      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		GraphName:          getEnv("GRAPH_NAME", "GIRAFFE_KG"),
		DataDir:            getEnv("DATA_DIR", "data"),
		Neo4jMirrorEnabled: getEnvBool("NEO4J_MIRROR_ENABLED", false),
		Neo4jURI:           getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", "password"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.GraphName == "" {
		return fmt.Errorf("GRAPH_NAME is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Neo4jMirrorEnabled {
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required when the mirror is enabled")
		}
		if c.Neo4jUser == "" {
			return fmt.Errorf("NEO4J_USER is required when the mirror is enabled")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required when the mirror is enabled")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
