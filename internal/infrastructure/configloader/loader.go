package configloader

import (
	"fmt"
	"os"
	"time"

	"likedao_wallet/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// ChainConfig describes the chain whose wallets are connected.
type ChainConfig struct {
	entity.ChainInfo `yaml:",inline"`
	LCDEndpoint      string `yaml:"lcdEndpoint"`
}

// DesmosConfig points at the social profile chain.
type DesmosConfig struct {
	LCDEndpoint  string `yaml:"lcdEndpoint"`
	Bech32Prefix string `yaml:"bech32Prefix"`
}

// AuthConfig points at the session server.
type AuthConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// PreferenceStoreConfig selects where the auto-connect preference is persisted.
type PreferenceStoreConfig struct {
	Type          string `yaml:"type"` // file or redis
	FilePath      string `yaml:"filePath"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	RedisPrefix   string `yaml:"redisPrefix"`
}

// WalletConfig configures the wallet adapters.
type WalletConfig struct {
	KeplrAgentURL                string                `yaml:"keplrAgentURL"`
	WalletConnectRelayURL        string                `yaml:"walletConnectRelayURL"`
	WalletConnectProjectID       string                `yaml:"walletConnectProjectID"`
	WalletConnectApprovalSeconds int                   `yaml:"walletConnectApprovalSeconds"`
	ConnectTimeoutSeconds        int                   `yaml:"connectTimeoutSeconds"`
	AppName                      string                `yaml:"appName"`
	AppURL                       string                `yaml:"appURL"`
	PreferenceStore              PreferenceStoreConfig `yaml:"preferenceStore"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int     `yaml:"max_concurrent_routines"`
	RPCCallTimeoutSeconds int     `yaml:"rpc_call_timeout_seconds"`
	RateLimit             float64 `yaml:"rate_limit"`
	BurstLimit            int     `yaml:"burst_limit"`
}

// CacheConfig holds validator cache settings.
type CacheConfig struct {
	ValidatorTTLMinutes    int `yaml:"validatorTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// StakesConfig holds stake list settings.
type StakesConfig struct {
	SortLocale string `yaml:"sortLocale"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Chain       ChainConfig       `yaml:"chain"`
	Desmos      DesmosConfig      `yaml:"desmos"`
	Auth        AuthConfig        `yaml:"auth"`
	Wallet      WalletConfig      `yaml:"wallet"`
	Performance PerformanceConfig `yaml:"performance"`
	Cache       CacheConfig       `yaml:"cache"`
	Stakes      StakesConfig      `yaml:"stakes"`
}

// RPCCallTimeout returns the per-request timeout of outbound calls.
func (c *Config) RPCCallTimeout() time.Duration {
	return time.Duration(c.Performance.RPCCallTimeoutSeconds) * time.Second
}

// Load reads the YAML configuration file from the given path, unmarshals it and
// fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Chain.Bech32Config.AccAddr == "" {
		cfg.Chain.Bech32Config.AccAddr = "like"
	}
	prefix := cfg.Chain.Bech32Config.AccAddr
	if cfg.Chain.Bech32Config.AccPub == "" {
		cfg.Chain.Bech32Config.AccPub = prefix + "pub"
	}
	if cfg.Chain.Bech32Config.ValAddr == "" {
		cfg.Chain.Bech32Config.ValAddr = prefix + "valoper"
	}
	if cfg.Chain.Bech32Config.ValPub == "" {
		cfg.Chain.Bech32Config.ValPub = prefix + "valoperpub"
	}
	if cfg.Chain.Bech32Config.ConsAddr == "" {
		cfg.Chain.Bech32Config.ConsAddr = prefix + "valcons"
	}
	if cfg.Chain.Bech32Config.ConsPub == "" {
		cfg.Chain.Bech32Config.ConsPub = prefix + "valconspub"
	}
	if cfg.Chain.REST == "" {
		cfg.Chain.REST = cfg.Chain.LCDEndpoint
	}
	if cfg.Chain.LCDEndpoint == "" {
		cfg.Chain.LCDEndpoint = cfg.Chain.REST
	}

	if cfg.Desmos.Bech32Prefix == "" {
		cfg.Desmos.Bech32Prefix = "desmos"
	}

	if cfg.Wallet.WalletConnectApprovalSeconds <= 0 {
		cfg.Wallet.WalletConnectApprovalSeconds = 300
	}
	if cfg.Wallet.ConnectTimeoutSeconds <= 0 {
		cfg.Wallet.ConnectTimeoutSeconds = 30
	}
	if cfg.Wallet.AppName == "" {
		cfg.Wallet.AppName = "LikeDAO"
	}
	if cfg.Wallet.PreferenceStore.Type == "" {
		cfg.Wallet.PreferenceStore.Type = "file"
	}
	if cfg.Wallet.PreferenceStore.FilePath == "" {
		cfg.Wallet.PreferenceStore.FilePath = "data/preferences.yml"
	}
	if cfg.Wallet.PreferenceStore.RedisPrefix == "" {
		cfg.Wallet.PreferenceStore.RedisPrefix = "likedao:"
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
	}
	if cfg.Performance.BurstLimit <= 0 {
		cfg.Performance.BurstLimit = 1
	}

	if cfg.Cache.ValidatorTTLMinutes <= 0 {
		cfg.Cache.ValidatorTTLMinutes = 10
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 2 * cfg.Cache.ValidatorTTLMinutes
	}

	if cfg.Stakes.SortLocale == "" {
		cfg.Stakes.SortLocale = "en"
	}
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	if c.Chain.ChainID == "" {
		return fmt.Errorf("chain.chainId is required")
	}
	if c.Chain.LCDEndpoint == "" {
		return fmt.Errorf("chain.lcdEndpoint is required")
	}
	if c.Chain.Currency.CoinMinimalDenom == "" {
		return fmt.Errorf("chain.currency.coinMinimalDenom is required")
	}
	if c.Desmos.LCDEndpoint == "" {
		return fmt.Errorf("desmos.lcdEndpoint is required")
	}
	switch c.Wallet.PreferenceStore.Type {
	case "file":
	case "redis":
		if c.Wallet.PreferenceStore.RedisAddress == "" {
			return fmt.Errorf("wallet.preferenceStore.redisAddress is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown wallet.preferenceStore.type %q", c.Wallet.PreferenceStore.Type)
	}
	return nil
}
