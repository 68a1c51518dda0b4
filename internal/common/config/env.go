package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
// This struct contains all configuration parameters for the application
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string

	// Environment and region info
	Environment string
	Region      string

	// Aggregate cache configuration
	CacheTTL time.Duration

	// Pagination configuration
	DefaultPageSize int
	MaxPageSize     int

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Create a new config object and load values from environment
	cfg := &Config{}

	// Required environment variables
	cfg.DynamoDBTableName = os.Getenv("DYNAMODB_TABLE_NAME")
	if cfg.DynamoDBTableName == "" {
		return nil, errors.New("DYNAMODB_TABLE_NAME environment variable is required")
	}

	// Environment and region info
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default to dev environment
	}

	cfg.Region = os.Getenv("REGION")
	if cfg.Region == "" {
		cfg.Region = "eu"
	}

	// AWS Region
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		// Default AWS regions based on our region code
		switch cfg.Region {
		case "us":
			cfg.AWSRegion = "us-west-2"
		case "jp":
			cfg.AWSRegion = "ap-northeast-1"
		case "eu":
			cfg.AWSRegion = "eu-west-1"
		default:
			cfg.AWSRegion = "eu-west-1" // Default fallback
		}
	}

	// Cache TTL is the time-based safety net for aggregates that a code path
	// forgot to invalidate explicitly. Minutes-order by default.
	cfg.CacheTTL = 5 * time.Minute
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, errors.New("CACHE_TTL_SECONDS must be a positive integer")
		}
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}

	cfg.DefaultPageSize = intFromEnv("DEFAULT_PAGE_SIZE", 50)
	cfg.MaxPageSize = intFromEnv("MAX_PAGE_SIZE", 200)

	// Check if running in Lambda
	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

func intFromEnv(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}
