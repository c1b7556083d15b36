package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ReemHassan742/bookcatalog/pkg/logger"
	"github.com/ReemHassan742/bookcatalog/pkg/postgres"
)

type Cache struct {
	// TTL is the staleness window of the catalog snapshot.
	TTL time.Duration `yaml:"ttl" envconfig:"CACHE_TTL" default:"5m"`
}

type Config struct {
	Database postgres.Config `yaml:"database"`
	Cache    Cache           `yaml:"cache"`
	Log      logger.Log      `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

type Option func(*Config)

func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
