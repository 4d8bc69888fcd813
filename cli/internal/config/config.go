// Package config loads CLI settings from config files, .env files and the environment.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	configName = ".querycompiler"
	envPrefix  = "QUERYCOMPILER"
)

// Config holds the application configuration
type Config struct {
	Dialect     string
	Format      string
	DatabaseURL string
	// File is the config file that was read, if any.
	File string
}

// LoadConfig loads configuration from the config file, .env files and the
// environment. An explicit path replaces the config file search.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "querycompiler"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("dialect", "postgresql")
	v.SetDefault("format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// .env.local overrides .env; neither overrides the real environment.
	local, err := readEnvFile(".env.local")
	if err != nil {
		return nil, err
	}
	base, err := readEnvFile(".env")
	if err != nil {
		return nil, err
	}

	dbURL := v.GetString("database_url")
	if dbURL == "" {
		dbURL = lookupEnv("DATABASE_URL", local, base)
	}

	return &Config{
		Dialect:     v.GetString("dialect"),
		Format:      v.GetString("format"),
		DatabaseURL: dbURL,
		File:        v.ConfigFileUsed(),
	}, nil
}

// SaveConfig writes cfg to the user config directory.
func SaveConfig(cfg *Config) (string, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("dialect", cfg.Dialect)
	v.Set("format", cfg.Format)
	if cfg.DatabaseURL != "" {
		v.Set("database_url", cfg.DatabaseURL)
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(home, ".config", "querycompiler")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return "", err
	}

	configFile := filepath.Join(configPath, configName+".yaml")
	return configFile, v.WriteConfigAs(configFile)
}

func readEnvFile(name string) (map[string]string, error) {
	f, err := AppFs.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

func lookupEnv(key string, files ...map[string]string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	for _, f := range files {
		if val, ok := f[key]; ok {
			return val
		}
	}
	return ""
}
