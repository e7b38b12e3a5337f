package config

import (
	"strings"
	"time"
)

// EnvVars holds the process level settings.
type EnvVars struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	AppName     string        `env:"APP_NAME" envDefault:"Amazon OAuth Callback"`
	Env         string        `env:"ENV" envDefault:"DEV"`
	BasePath    string        `env:"BASE_PATH"`
	DataFolder  string        `env:"FOLDER" envDefault:"./data"`
	Debug       bool          `env:"DEBUG" envDefault:"false"`
	ShowErrors  bool          `env:"ERRORS" envDefault:"false"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"LOG_FILE"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetDataFolder() string {
	return e.DataFolder
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

// GetBasePath returns the mount prefix without a trailing slash, or "" for root.
func (e EnvVars) GetBasePath() string {
	p := strings.TrimRight(e.BasePath, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
