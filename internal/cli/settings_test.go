package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/job"
)

// resolveForTest runs resolveSettings through a probe subcommand so the
// persistent flags are parsed exactly as in a real invocation.
func resolveForTest(t *testing.T, args ...string) (Settings, error) {
	t.Helper()

	var got Settings
	var resolveErr error

	root := newRootCmd()
	probe := &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got, resolveErr = resolveSettings(cmd)
			return nil
		},
	}
	root.AddCommand(probe)
	root.SetArgs(append([]string{"probe"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute probe: %v", err)
	}
	return got, resolveErr
}

func clearCLIEnv(t *testing.T) {
	t.Helper()
	os.Unsetenv(EnvBaseURL)
	os.Unsetenv(EnvVoice)
	// Keep the user's real config file out of the resolution.
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { os.Unsetenv("XDG_CONFIG_HOME") })
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveSettings_Defaults(t *testing.T) {
	clearCLIEnv(t)

	s, err := resolveForTest(t)
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}

	if s.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", s.BaseURL, DefaultBaseURL)
	}
	if s.Voice != job.DefaultVoiceID {
		t.Errorf("Voice = %q, want %q", s.Voice, job.DefaultVoiceID)
	}
	if s.HistoryPath == "" {
		t.Error("HistoryPath is empty")
	}
	if s.Verbose {
		t.Error("Verbose = true, want false")
	}
}

func TestResolveSettings_FromFile(t *testing.T) {
	clearCLIEnv(t)
	path := writeConfigFile(t, "base_url: http://10.0.0.5:9999\nvoice: en_US-amy-medium\nhistory_path: /tmp/h.db\n")

	s, err := resolveForTest(t, "--config", path)
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}

	if s.BaseURL != "http://10.0.0.5:9999" {
		t.Errorf("BaseURL = %q, want file value", s.BaseURL)
	}
	if s.Voice != "en_US-amy-medium" {
		t.Errorf("Voice = %q, want file value", s.Voice)
	}
	if s.HistoryPath != "/tmp/h.db" {
		t.Errorf("HistoryPath = %q, want file value", s.HistoryPath)
	}
}

func TestResolveSettings_EnvOverridesFile(t *testing.T) {
	clearCLIEnv(t)
	path := writeConfigFile(t, "base_url: http://file.example\nvoice: en_US-amy-medium\n")
	os.Setenv(EnvBaseURL, "http://env.example")
	defer os.Unsetenv(EnvBaseURL)
	os.Setenv(EnvVoice, "en_GB-alan-medium")
	defer os.Unsetenv(EnvVoice)

	s, err := resolveForTest(t, "--config", path)
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}

	if s.BaseURL != "http://env.example" {
		t.Errorf("BaseURL = %q, want env value", s.BaseURL)
	}
	if s.Voice != "en_GB-alan-medium" {
		t.Errorf("Voice = %q, want env value", s.Voice)
	}
}

func TestResolveSettings_FlagOverridesEnv(t *testing.T) {
	clearCLIEnv(t)
	os.Setenv(EnvBaseURL, "http://env.example")
	defer os.Unsetenv(EnvBaseURL)

	s, err := resolveForTest(t, "--base-url", "http://flag.example")
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}

	if s.BaseURL != "http://flag.example" {
		t.Errorf("BaseURL = %q, want flag value", s.BaseURL)
	}
}

func TestResolveSettings_ExplicitConfigMissing(t *testing.T) {
	clearCLIEnv(t)

	_, err := resolveForTest(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("resolveSettings() with missing explicit config expected error, got nil")
	}
}

func TestResolveSettings_MissingDefaultConfigIgnored(t *testing.T) {
	clearCLIEnv(t)

	if _, err := resolveForTest(t); err != nil {
		t.Errorf("resolveSettings() error = %v, want nil when default config absent", err)
	}
}

func TestResolveSettings_TrimsTrailingSlash(t *testing.T) {
	clearCLIEnv(t)

	s, err := resolveForTest(t, "--base-url", "http://flag.example/")
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}
	if s.BaseURL != "http://flag.example" {
		t.Errorf("BaseURL = %q, want trailing slash removed", s.BaseURL)
	}
}

func TestResolveSettings_Verbose(t *testing.T) {
	clearCLIEnv(t)

	s, err := resolveForTest(t, "--verbose")
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}
	if !s.Verbose {
		t.Error("Verbose = false, want true")
	}
}
