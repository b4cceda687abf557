package main

import (
	"github.com/dmitrymomot/authservice/pkg/httpserver"
)

type appConfig struct {
	Name       string `env:"APP_NAME" envDefault:"authservice"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogSilent  bool   `env:"LOG_SILENT" envDefault:"false"`
	LogLevel   string `env:"LOG_LEVEL"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	HTTP httpserver.Config
}
