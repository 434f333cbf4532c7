package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/edgard/transbot/internal/errors"
)

const envPrefix = "TRANSBOT"

// platformEnv maps configuration keys to the unprefixed variables set by the
// hosting platform.
var platformEnv = map[string]string{
	"telegram.token":   "BOT_TOKEN",
	"webhook.base_url": "RENDER_EXTERNAL_URL",
	"server.port":      "PORT",
}

// Load loads and validates configuration from, in increasing precedence:
//  1. Default values
//  2. The config file at path (optional; "" looks for ./config.yaml)
//  3. TRANSBOT_* environment variables
//  4. BOT_TOKEN, RENDER_EXTERNAL_URL and PORT
//
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to read .env file", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range platformEnv {
		if err := v.BindEnv(key, env, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, apperrors.NewConfigError("failed to bind environment", err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, apperrors.NewConfigError("failed to load config file", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Allow missing config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}
