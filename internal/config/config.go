package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"encoding/base64"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Market   MarketConfig   `json:"market"`
	Auth     AuthConfig     `json:"auth"`
}

// ServerConfig contains server related configurations
type ServerConfig struct {
	Port         int  `json:"port"`
	SeedDemoData bool `json:"seed_demo_data"`
}

// DatabaseConfig contains database related configurations
type DatabaseConfig struct {
	// Driver selects the store backend: "memory" or "postgres".
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// MarketConfig contains marketplace engine configurations
type MarketConfig struct {
	// FeeRate is the marketplace cut of each settled price.
	FeeRate  float64 `json:"fee_rate"`
	Currency string  `json:"currency"`
	// ContractAddress and ChainID identify the settlement target recorded
	// in each chain reference.
	ContractAddress string `json:"contract_address"`
	ChainID         string `json:"chain_id"`
	// ListingTTLHours sets the expiration shown on marketplace listings.
	ListingTTLHours int `json:"listing_ttl_hours"`
	// TokenIDBase is the value before the first allocated token id.
	TokenIDBase int64 `json:"token_id_base"`
}

// AuthConfig contains authentication related configurations
type AuthConfig struct {
	JWTSecret     string `json:"jwt_secret"`
	JWTExpiration int    `json:"jwt_expiration"` // in hours
}

// Load loads the configuration from file and environment
func Load() (*Config, error) {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Default config
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver: "memory",
			Host:   "localhost",
			Port:   5432,
			Name:   "leafchain",
		},
		Market: MarketConfig{
			FeeRate:         0.10,
			Currency:        "ETH",
			ContractAddress: "0x1234567890123456789012345678901234567890",
			ChainID:         "137",
			ListingTTLHours: 168,
			TokenIDBase:     1000,
		},
		Auth: AuthConfig{
			JWTExpiration: 24,
		},
	}

	// Look for config file
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		// Use default config file path
		configFile = filepath.Join("configs", "config.json")
	}

	// Try to load config from file
	if _, err := os.Stat(configFile); err == nil {
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables if present
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var serverPort int
		if _, err := fmt.Sscanf(port, "%d", &serverPort); err == nil {
			cfg.Server.Port = serverPort
		}
	}
	if seed := os.Getenv("SEED_DEMO_DATA"); seed != "" {
		cfg.Server.SeedDemoData = seed == "true"
	}

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		var databasePort int
		if _, err := fmt.Sscanf(dbPort, "%d", &databasePort); err == nil {
			cfg.Database.Port = databasePort
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}

	if feeRate := os.Getenv("MARKET_FEE_RATE"); feeRate != "" {
		var rate float64
		if _, err := fmt.Sscanf(feeRate, "%f", &rate); err == nil {
			cfg.Market.FeeRate = rate
		}
	}
	if currency := os.Getenv("MARKET_CURRENCY"); currency != "" {
		cfg.Market.Currency = currency
	}
	if contract := os.Getenv("NFT_CONTRACT_ADDRESS"); contract != "" {
		cfg.Market.ContractAddress = contract
	}
	if chainID := os.Getenv("BLOCKCHAIN_CHAIN_ID"); chainID != "" {
		cfg.Market.ChainID = chainID
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.Auth.JWTSecret = jwtSecret
	} else if cfg.Auth.JWTSecret == "" {
		// Generate a random JWT secret if not provided
		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, err
		}
		cfg.Auth.JWTSecret = base64.StdEncoding.EncodeToString(randomBytes)
	}

	if cfg.Market.FeeRate < 0 || cfg.Market.FeeRate >= 1 {
		return nil, fmt.Errorf("market fee rate must be in [0, 1), got %v", cfg.Market.FeeRate)
	}

	return cfg, nil
}
