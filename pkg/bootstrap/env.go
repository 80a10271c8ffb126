package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
)

// Env holds the runtime configuration resolved once at process start.
// PORT is the only variable hosting platforms set for us; everything else
// has a local default.
type Env struct {
	Port          uint   `env:"PORT" envDefault:"10000"`
	AppHome       string `env:"APP_HOME"`
	PythonVersion string `env:"PYTHON_VERSION"`
	HealthURL     string `env:"HEALTH_URL"`
}

func NewEnv() *Env {
	var e Env
	if err := env.Parse(&e); err != nil {
		log.Fatal(err)
	}
	if e.AppHome == "" {
		exe, err := os.Executable()
		if err != nil {
			log.Fatal(err)
		}
		e.AppHome = filepath.Dir(exe)
	}
	return &e
}
