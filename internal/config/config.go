package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type TokenCfg struct {
	Symbol   string `yaml:"symbol" validate:"required"`
	Address  string `yaml:"address" validate:"required,eth_addr"`
	Decimals uint8  `yaml:"decimals"`
}

type MenuItemCfg struct {
	Title string `yaml:"title" validate:"required"`
	Path  string `yaml:"path" validate:"required,startswith=/"`
}

type Config struct {
	Chain struct {
		RPCHTTP string `yaml:"rpc_http" validate:"omitempty,url"`
		ChainID uint64 `yaml:"chain_id"`
		// PrimaryChainID is the network the menu reports as "connected".
		PrimaryChainID uint64 `yaml:"primary_chain_id" validate:"required"`
		WalletPK       string `yaml:"wallet_pk"`
		Address        string `yaml:"address" validate:"omitempty,eth_addr"`
		ENSName        string `yaml:"ens_name"`
	} `yaml:"chain"`

	DEX struct {
		Router  string     `yaml:"router" validate:"required,eth_addr"`
		Factory string     `yaml:"factory" validate:"required,eth_addr"`
		WETH    string     `yaml:"weth" validate:"required,eth_addr"`
		Tokens  []TokenCfg `yaml:"tokens" validate:"dive"`
	} `yaml:"dex"`

	Menu struct {
		Items []MenuItemCfg `yaml:"items" validate:"dive"`
		Dark  bool          `yaml:"dark"`
	} `yaml:"menu"`

	HTTP struct {
		ListenAddr      string `yaml:"listen_addr"`
		EnableExecution bool   `yaml:"enable_execution"`
	} `yaml:"http"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`

	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Stream   string `yaml:"stream"`
		TxNS     string `yaml:"tx_ns"`
	} `yaml:"redis"`

	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads the YAML file at path, applies defaults and SUSHI_* environment
// overrides (a .env file in the working directory is honoured) and validates
// the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	_ = godotenv.Load()
	applyEnv(&c)
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Chain.PrimaryChainID == 0 {
		c.Chain.PrimaryChainID = 1
	}
	if c.DEX.Router == "" {
		c.DEX.Router = "0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f"
	}
	if c.DEX.Factory == "" {
		c.DEX.Factory = "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"
	}
	if c.DEX.WETH == "" {
		c.DEX.WETH = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	}
	for i := range c.DEX.Tokens {
		if c.DEX.Tokens[i].Decimals == 0 {
			c.DEX.Tokens[i].Decimals = 18
		}
	}
	if len(c.Menu.Items) == 0 {
		c.Menu.Items = []MenuItemCfg{
			{Title: "Swap", Path: "/swap"},
			{Title: "Liquidity", Path: "/liquidity"},
			{Title: "Migrate", Path: "/migrate"},
			{Title: "Staking", Path: "/staking"},
		}
	}
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "swap:stream"
	}
	if c.Redis.TxNS == "" {
		c.Redis.TxNS = "swap:tx:"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func applyEnv(c *Config) {
	setStr(&c.Chain.RPCHTTP, "SUSHI_RPC_HTTP")
	setStr(&c.Chain.WalletPK, "SUSHI_WALLET_PK")
	setStr(&c.Chain.Address, "SUSHI_ADDRESS")
	setStr(&c.Chain.ENSName, "SUSHI_ENS_NAME")
	setUint(&c.Chain.ChainID, "SUSHI_CHAIN_ID")
	setStr(&c.HTTP.ListenAddr, "SUSHI_HTTP_ADDR")
	setStr(&c.Metrics.ListenAddr, "SUSHI_METRICS_ADDR")
	setStr(&c.Redis.Addr, "SUSHI_REDIS_ADDR")
	setStr(&c.Redis.Password, "SUSHI_REDIS_PASSWORD")
	setStr(&c.Log.Level, "SUSHI_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setUint(dst *uint64, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
