package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig is everything the serve command needs beyond CLI flags.
// Every field can come from a `ytvault.yaml` next to the binary or be
// overridden through YTVAULT_* environment variables.
type ServerConfig struct {
	SecretKey         string
	ClientSecretsFile string
	GoogleClientID    string
	RedirectURL       string
	VideosPerPage     int64
	SessionTTLHours   int64
	ProtectDownloads  bool
}

func ProjectRoot() (string, error) {
	ex, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(ex), nil
}

func Read(name string, cfg any) error {
	v := viper.New()
	v.SetConfigName(name)

	v.SetEnvPrefix("ytvault")
	v.AutomaticEnv()

	// defaults also register keys for AutomaticEnv pickup
	v.SetDefault("secretkey", "")
	v.SetDefault("googleclientid", "")
	v.SetDefault("videosperpage", 25)
	v.SetDefault("sessionttlhours", 24)
	v.SetDefault("clientsecretsfile", "client_secret.json")
	v.SetDefault("redirecturl", "http://127.0.0.1:8080/callback")
	v.SetDefault("protectdownloads", false)

	pp, err := ProjectRoot()
	if err != nil {
		return err
	}
	v.AddConfigPath(pp)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	return nil
}

func ReadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	return cfg, Read("ytvault", cfg)
}
