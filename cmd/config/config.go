package config

import (
	"fmt"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/libs"
	"github.com/coopgov/coopgov-go/types"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
)

const (
	DefaultConfigFileName = "coopgov.yaml"
	DefaultDBBackend      = "goleveldb"
	DefaultCacheSize      = 10000
	EnvPrefix             = "COOPGOV"
)

// Fixtures feed the oracles of the command line tool.
// Roles maps a member address to the roles it wears.
// Balances maps an asset address to holder balances in decimal.
type Fixtures struct {
	Roles    map[string][]ctrlertypes.RoleID `yaml:"roles,omitempty"`
	Balances map[string]map[string]string    `yaml:"balances,omitempty"`
}

type Config struct {
	Home        string `yaml:"home"`
	DBBackend   string `yaml:"dbBackend"   split_words:"true"`
	CacheSize   int    `yaml:"cacheSize"   split_words:"true"`
	LogLevel    string `yaml:"logLevel"    split_words:"true"`
	MetricsAddr string `yaml:"metricsAddr" split_words:"true"`

	Gov      *ctrlertypes.GovParams `yaml:"gov"                ignored:"true"`
	Fixtures *Fixtures              `yaml:"fixtures,omitempty" ignored:"true"`
}

// DefaultConfig gives the engine a fresh address; `init` persists it.
func DefaultConfig() *Config {
	gov := ctrlertypes.DefaultGovParams()
	gov.Engine = types.RandAddress()
	return &Config{
		Home:      filepath.Join(libs.GetHome(), ".coopgov"),
		DBBackend: DefaultDBBackend,
		CacheSize: DefaultCacheSize,
		LogLevel:  "info",
		Gov:       gov,
		Fixtures:  &Fixtures{},
	}
}

func (c *Config) SetHome(home string) {
	c.Home = libs.AbsPath(home)
}

func (c *Config) DBDir() string {
	return filepath.Join(c.Home, "data")
}

func (c *Config) ConfigFile() string {
	return filepath.Join(c.Home, "config", DefaultConfigFileName)
}

func (c *Config) Validate() error {
	switch c.DBBackend {
	case "goleveldb", "memdb":
	default:
		return fmt.Errorf("unsupported dbBackend: %q", c.DBBackend)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cacheSize: %d", c.CacheSize)
	}
	if c.Gov == nil {
		return fmt.Errorf("missing gov section")
	}
	return c.Gov.Validate()
}

// LoadConfig reads configFile over the defaults, then applies COOPGOV_*
// environment overrides. An empty configFile loads defaults only.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if cfg.Fixtures == nil {
		cfg.Fixtures = &Fixtures{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(configFile string) error {
	bz, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return err
	}
	_, err = libs.NewFileWriter(configFile).Write(bz)
	return err
}
