package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smartclipper/smartclip/internal/history"
	"github.com/smartclipper/smartclip/internal/job"
)

const (
	// DefaultBaseURL is where a locally running server listens.
	DefaultBaseURL = "http://127.0.0.1:8787"

	EnvBaseURL = "SMARTCLIP_BASE_URL"
	EnvVoice   = "SMARTCLIP_VOICE"
)

type fileConfig struct {
	BaseURL     string `yaml:"base_url"`
	Voice       string `yaml:"voice"`
	HistoryPath string `yaml:"history_path"`
}

// Settings is the resolved CLI configuration: flags over environment
// variables over the YAML file over built-in defaults.
type Settings struct {
	BaseURL     string
	Voice       string
	HistoryPath string
	Verbose     bool
}

func resolveSettings(cmd *cobra.Command) (Settings, error) {
	s := Settings{
		BaseURL:     DefaultBaseURL,
		Voice:       job.DefaultVoiceID,
		HistoryPath: history.DefaultPath(),
	}

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		fc, err := loadFileConfig(path)
		switch {
		case err == nil:
			applyFileConfig(&s, fc)
		case explicit || !os.IsNotExist(err):
			return Settings{}, err
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv(EnvVoice); v != "" {
		s.Voice = v
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		s.BaseURL = v
	}
	s.Verbose, _ = cmd.Flags().GetBool("verbose")

	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return s, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// applyFileConfig overlays the file's values; absent fields keep defaults.
func applyFileConfig(s *Settings, fc fileConfig) {
	if fc.BaseURL != "" {
		s.BaseURL = fc.BaseURL
	}
	if fc.Voice != "" {
		s.Voice = fc.Voice
	}
	if fc.HistoryPath != "" {
		s.HistoryPath = fc.HistoryPath
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "smartclip", "config.yaml")
}
