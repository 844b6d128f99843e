package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FitAICoach/internal/models"
	"FitAICoach/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	configName = ".fitcoach"
	envPrefix  = "FITCOACH"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ClientConfig is the resolved client configuration.
type ClientConfig struct {
	ServerURL      string `validate:"required,url"`
	APIKey         string
	DataDir        string        `validate:"required"`
	StorageBackend string        `validate:"oneof=file sqlite"`
	RequestTimeout time.Duration `validate:"gt=0"`
	Theme          string        `validate:"oneof=dark light"`
	Verbose        bool
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configName
	}
	return filepath.Join(home, configName)
}

// initConfig reads the optional config file and FITCOACH_* environment
// variables into v. Flags are bound by the caller.
func initConfig(v *viper.Viper, cfgFile string) {
	v.SetEnvPrefix(envPrefix)                          // e.g., FITCOACH_SERVER_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // storage.backend -> FITCOACH_STORAGE_BACKEND
	v.AutomaticEnv()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("theme", ui.ThemeDark)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home) // $HOME/.fitcoach.yaml
		}
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err == nil {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Using config file")
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debug().Msg("No config file found. Using defaults and environment variables.")
	} else {
		log.Warn().Err(err).Str("file", v.ConfigFileUsed()).Msg("Error reading config file")
	}
}

// loadClientConfig resolves and validates the configuration held by v.
func loadClientConfig(v *viper.Viper) (ClientConfig, error) {
	cfg := ClientConfig{
		ServerURL:      strings.TrimSpace(v.GetString("server_url")),
		APIKey:         v.GetString("api_key"),
		DataDir:        v.GetString("data_dir"),
		StorageBackend: strings.ToLower(v.GetString("storage.backend")),
		RequestTimeout: v.GetDuration("request_timeout"),
		Theme:          strings.ToLower(v.GetString("theme")),
		Verbose:        v.GetBool("verbose"),
	}
	if err := models.ValidateStruct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
