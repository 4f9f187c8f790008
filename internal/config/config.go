package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type MarketplaceConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	GRPCServer     `yaml:"grpc_server"`
	Storage        `yaml:"storage"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	Redis          `yaml:"redis"`
	Chain          `yaml:"chain"`
	Settlement     `yaml:"settlement"`
	PaymentGateway `yaml:"payment-gateway"`
	Webhook        `yaml:"webhook"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type Storage struct {
	Driver          string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"` // postgres | memory
	Dsn             string        `yaml:"dsn" env:"MARKETPLACE_DB_DSN"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
	TxRetries       int           `yaml:"tx_retries" env-default:"3"`
}

type LogConfig struct {
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat     string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput     string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
	LogFile       string `yaml:"log_file" env:"LOG_FILE" env-default:"logs/marketplace.log"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb" env-default:"100"`
	LogMaxBackups int    `yaml:"log_max_backups" env-default:"3"`
	LogMaxAgeDays int    `yaml:"log_max_age_days" env-default:"28"`
}

type KafkaService struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"marketplace-audit"`
	// PublishWorkers bounds concurrent asynchronous publishes.
	PublishWorkers int `yaml:"publish_workers" env-default:"16"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"CART_LOCK_TTL" env-default:"10s"`
	LockWait time.Duration `yaml:"lock_wait" env:"CART_LOCK_WAIT" env-default:"3s"`
}

type Chain struct {
	Mode           string        `yaml:"mode" env:"CHAIN_MODE" env-default:"simulated"` // simulated | ethereum
	RPCURL         string        `yaml:"rpc_url" env:"CHAIN_RPC_URL"`
	EscrowContract string        `yaml:"escrow_contract" env:"ESCROW_CONTRACT_ADDRESS"`
	Arbiter        string        `yaml:"arbiter" env:"ESCROW_ARBITER"`
	Confirmations  uint64        `yaml:"confirmations" env-default:"6"`
	StartBlock     uint64        `yaml:"start_block" env-default:"0"`
	MaxBlockRange  uint64        `yaml:"max_block_range" env-default:"2000"`
	SyncInterval   time.Duration `yaml:"sync_interval" env:"CHAIN_SYNC_INTERVAL" env-default:"30s"`
	RefundTimeout  time.Duration `yaml:"refund_timeout" env-default:"720h"`
}

type Settlement struct {
	Currency              string  `yaml:"currency" env:"SETTLEMENT_CURRENCY" env-default:"KES"`
	VATRate               string  `yaml:"vat_rate" env:"VAT_RATE" env-default:"0.16"`
	FreeShippingThreshold int64   `yaml:"free_shipping_threshold" env:"FREE_SHIPPING_THRESHOLD" env-default:"500000"`
	ShippingFee           int64   `yaml:"shipping_fee" env:"SHIPPING_FEE" env-default:"50000"`
	// TransactionCaps limits a single investment per external trust band (T0..T4); 0 means unlimited.
	TransactionCaps map[string]int64 `yaml:"transaction_caps"`
}

type PaymentGateway struct {
	BaseURL string        `yaml:"base_url" env:"PAYMENT_GATEWAY_URL"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// Webhook receives a signed copy of every published event when URL is set.
type Webhook struct {
	URL     string        `yaml:"url" env:"WEBHOOK_URL"`
	Secret  string        `yaml:"secret" env:"WEBHOOK_SECRET"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// Load reads the YAML file at path, then applies environment overrides.
func Load(path string) (*MarketplaceConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	var cfg MarketplaceConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *MarketplaceConfig {
	// Processing env config variable and file
	configPath := os.Getenv("MARKETPLACE_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("MARKETPLACE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}

func (c *MarketplaceConfig) validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.Dsn == "" {
			return fmt.Errorf("storage.dsn is required for postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Chain.Mode {
	case "simulated":
	case "ethereum":
		if c.Chain.RPCURL == "" || c.Chain.EscrowContract == "" {
			return fmt.Errorf("chain.rpc_url and chain.escrow_contract are required in ethereum mode")
		}
	default:
		return fmt.Errorf("unknown chain mode %q", c.Chain.Mode)
	}
	if c.Settlement.Currency == "" {
		return fmt.Errorf("settlement.currency is required")
	}
	return nil
}

func (s HTTPServer) Addr() string { return fmt.Sprintf("%s:%s", s.Host, s.Port) }

func (s GRPCServer) Addr() string { return fmt.Sprintf("%s:%s", s.Host, s.Port) }
