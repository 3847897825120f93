// Package config resolves service settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/country"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/utilities"
)

// JWTConfig locates the RS256 key pair. Inline PEM wins over files.
type JWTConfig struct {
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyFile string `yaml:"private_key_file"`
	PublicKey      string `yaml:"public_key"`
	PublicKeyFile  string `yaml:"public_key_file"`
}

type Config struct {
	Addr             string               `yaml:"addr"`
	Issuer           string               `yaml:"issuer"`
	JWT              JWTConfig            `yaml:"jwt"`
	Store            database.StoreConfig `yaml:"store"`
	CountriesAPIURL  string               `yaml:"countries_api_url"`
	CurrenciesAPIURL string               `yaml:"currencies_api_url"`
	CurrencyBase     string               `yaml:"currency_base"`
	ProxyLimit       country.LimitConfig  `yaml:"proxy_limit"`
	CORSOrigin       string               `yaml:"cors_origin"`
	SnowflakeNode    int64                `yaml:"snowflake_node"`
	ItemKDF          item.Params          `yaml:"item_kdf"`
	Log              utilities.Config     `yaml:"log"`
}

func Default() Config {
	return Config{
		Addr:             "0.0.0.0:8431",
		Issuer:           "pitchside",
		Store:            database.StoreConfig{Driver: "badger", Dir: "data"},
		CountriesAPIURL:  "https://restcountries.com/v2",
		CurrenciesAPIURL: "https://api.exchangerate.host",
		CurrencyBase:     "EUR",
		ProxyLimit:       country.LimitConfig{PerSecond: 5, Burst: 10},
		CORSOrigin:       "*",
		SnowflakeNode:    1,
		ItemKDF:          item.DefaultParams,
		Log:              utilities.DefaultConfig(),
	}
}

// Load builds the configuration. path may be empty, in which case
// CONFIG_FILE is consulted.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with any environment variables that are set.
func (c *Config) ApplyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	str("ADDR", &c.Addr)
	str("ISSUER_ID", &c.Issuer)
	str("JWT_PRIVATE_KEY", &c.JWT.PrivateKey)
	str("JWT_PRIVATE_KEY_FILE", &c.JWT.PrivateKeyFile)
	str("JWT_PUBLIC_KEY", &c.JWT.PublicKey)
	str("JWT_PUBLIC_KEY_FILE", &c.JWT.PublicKeyFile)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DIR", &c.Store.Dir)
	str("DATABASE_URL", &c.Store.DSN)
	str("COUNTRIES_API_URL", &c.CountriesAPIURL)
	str("CURRENCIES_API_URL", &c.CurrenciesAPIURL)
	str("CURRENCY_BASE", &c.CurrencyBase)
	str("CORS_ORIGIN", &c.CORSOrigin)

	if v := os.Getenv("STORE_IN_MEMORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STORE_IN_MEMORY: %w", err)
		}
		c.Store.InMemory = b
	}
	if v := os.Getenv("PROXY_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PROXY_RATE_LIMIT: %w", err)
		}
		c.ProxyLimit.PerSecond = f
	}
	if v := os.Getenv("PROXY_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROXY_BURST: %w", err)
		}
		c.ProxyLimit.Burst = n
	}
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SNOWFLAKE_NODE: %w", err)
		}
		c.SnowflakeNode = n
	}
	c.Log.ApplyEnv()
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Issuer == "" {
		errs = append(errs, errors.New("issuer is required"))
	}
	switch strings.ToLower(c.Store.Driver) {
	case "", "badger", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		errs = append(errs, fmt.Errorf("snowflake node %d out of range", c.SnowflakeNode))
	}
	return errors.Join(errs...)
}

// HasSigningKey reports whether a private key was configured.
func (j JWTConfig) HasSigningKey() bool {
	return j.PrivateKey != "" || j.PrivateKeyFile != ""
}

// Keys loads the configured key pair.
func (j JWTConfig) Keys() (*token.Keys, error) {
	priv, err := pem(j.PrivateKey, j.PrivateKeyFile)
	if err != nil {
		return nil, err
	}
	pub, err := pem(j.PublicKey, j.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	return token.LoadKeys(priv, pub)
}

func pem(inline, file string) ([]byte, error) {
	if inline != "" {
		// env vars often carry PEM with escaped newlines
		return []byte(strings.ReplaceAll(inline, `\n`, "\n")), nil
	}
	if file == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return raw, nil
}
