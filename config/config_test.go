package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type appConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        struct {
		Port        int           `mapstructure:"port"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"server"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("development enables debug logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("environment=%q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
		}
		if cfg.Version != "dev" {
			t.Errorf("version = %q", cfg.Version)
		}
		if cfg.Observability.Endpoint == "" {
			t.Error("observability defaults not applied")
		}
	})

	t.Run("production keeps info logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug || cfg.Logging.Level != "info" {
			t.Errorf("debug=%v level=%q", cfg.Debug, cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("level = %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		cfg := ServiceConfig{Name: "svc", Environment: "staging"}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		errMsg string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "name: is required"},
		{"bad environment", func(c *ServiceConfig) { c.Environment = "qa" }, "environment: must be one of"},
		{"bad log level", func(c *ServiceConfig) { c.Logging.Level = "loud" }, "config.logging"},
		{"bad sample rate", func(c *ServiceConfig) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("err = %v, want it to contain %q", err, tc.errMsg)
			}
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: seqquery
environment: staging
logging:
  level: warn
  format: json
server:
  port: 8080
  read_timeout: 5s
`)

	var cfg appConfig
	if err := LoadConfig("seqquery-test-yaml", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "seqquery" || cfg.Environment != "staging" {
		t.Errorf("service = %q/%q", cfg.Name, cfg.Environment)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Server.Port != 8080 || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: seqquery\nserver:\n  port: 8080\n")
	t.Setenv("SEQTEST_SERVER_PORT", "9090")
	t.Setenv("SEQTEST_SERVER_READ_TIMEOUT", "2s")
	t.Setenv("SEQTEST_LOGGING_SLOW_QUERY_MS", "250")
	t.Setenv("OTHER_SERVER_PORT", "1")

	var cfg appConfig
	if err := LoadConfig("seqtest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want the environment value", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.SlowQueryMs != 250 {
		t.Errorf("slow_query_ms = %d", cfg.Logging.SlowQueryMs)
	}
	if cfg.Name != "seqquery" {
		t.Errorf("file values must survive, name = %q", cfg.Name)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "SEQENV_NAME=from-dotenv\nSEQENV_VERSION=1.2.3\n")
	t.Setenv("SEQENV_VERSION", "from-process")
	t.Cleanup(func() { os.Unsetenv("SEQENV_NAME") })

	var cfg appConfig
	if err := LoadConfig("seqenv", &cfg, WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Version != "from-process" {
		t.Errorf("version = %q, process variables must win over .env", cfg.Version)
	}
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	var cfg appConfig
	if err := LoadConfig("seqmissing", &cfg, WithConfigFile("/nonexistent/config.yml")); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: [unterminated\n")
	var cfg appConfig
	if err := LoadConfig("seqbroken", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f fakeFS) Exists(path string) bool  { return f.files[path] }
func (f fakeFS) LoadEnv(path string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"nothing found", nil, "", ""},
		{"service dir", []string{"./cmd/seqquery/config.yml", "./cmd/seqquery/.env"}, "./cmd/seqquery/config.yml", "./cmd/seqquery/.env"},
		{"nearest wins", []string{"../cmd/seqquery/config.yml", "./cmd/seqquery/config.yaml"}, "./cmd/seqquery/config.yaml", ""},
		{"service env file first", []string{"./.env", "../../cmd/seqquery/.env.seqquery"}, "", "../../cmd/seqquery/.env.seqquery"},
		{"root fallback", []string{"./config.yml"}, "./config.yml", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := fakeFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("seqquery", LoaderConfig{})
			if got.ConfigFile != tc.wantConfig || got.EnvFile != tc.wantEnv {
				t.Errorf("got %+v, want config=%q env=%q", got, tc.wantConfig, tc.wantEnv)
			}
		})
	}
}

func TestResolverKeepsExplicitPaths(t *testing.T) {
	fs := fakeFS{files: map[string]bool{"./config.yml": true}}
	got := (&Resolver{FileSystem: fs}).ResolveFiles("svc", LoaderConfig{ConfigFile: "/etc/svc.yml", EnvFile: "/etc/svc.env"})
	if got.ConfigFile != "/etc/svc.yml" || got.EnvFile != "/etc/svc.env" {
		t.Errorf("got %+v", got)
	}
}

func TestKeyVariants(t *testing.T) {
	got := keyVariants("SERVER_READ_TIMEOUT")
	for _, want := range []string{"server_read_timeout", "server.read.timeout", "server.read_timeout", "server_read.timeout"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing variant %q in %v", want, got)
		}
	}
	if got := keyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("single part = %v", got)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("seq-query"); got != "SEQ_QUERY" {
		t.Errorf("envPrefix = %q", got)
	}
}
