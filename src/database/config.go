package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	Host       string `envconfig:"PGHOST" default:"localhost"`
	User       string `envconfig:"PGUSER" default:"postgres"`
	Password   string `envconfig:"PGPASSWORD"`
	Name       string `envconfig:"PGDATABASE" default:"signalengine"`
	Port       string `envconfig:"PGPORT" default:"5432"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"signalengine.db"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
