package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	HTTPConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	HTTP
	Storage
}

func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
