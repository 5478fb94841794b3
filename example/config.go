package main

import (
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"

	geoip "github.com/proipinfo/geoip-legacy"
)

type config struct {
	DBPath       string     `env:"GEOIP_DB_PATH,required"`
	Mode         geoip.Mode `env:"GEOIP_MODE" envDefault:"direct"`
	CacheSize    int        `env:"GEOIP_CACHE_SIZE" envDefault:"0"`
	LogLevel     string     `env:"LOG_LEVEL" envDefault:"INFO"`
	OutputFormat string     `env:"OUTPUT_FORMAT" envDefault:"json"`
}

func loadConfig() (config, error) {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return config{}, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}
