package gateway

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DataRoot != "./data" {
		t.Fatalf("data root %q want ./data", cfg.DataRoot)
	}
	if cfg.ListenAddr != ":8000" {
		t.Fatalf("listen addr %q", cfg.ListenAddr)
	}
	if cfg.OracleTimeoutSeconds != 60 {
		t.Fatalf("oracle timeout %d", cfg.OracleTimeoutSeconds)
	}
	if cfg.ExecTimeoutSeconds != 0 {
		t.Fatalf("exec timeout should default to disabled, got %d", cfg.ExecTimeoutSeconds)
	}
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	t.Setenv(OracleTokenEnv, "tok")
	path := filepath.Join(t.TempDir(), "taskgate.yml")
	data := "data_root: /srv/taskdata\noracle_timeout_seconds: 5\ndenylist: [shred, dd]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataRoot != "/srv/taskdata" {
		t.Fatalf("data root %q", cfg.DataRoot)
	}
	if cfg.OracleTimeoutSeconds != 5 {
		t.Fatalf("oracle timeout %d", cfg.OracleTimeoutSeconds)
	}
	if len(cfg.Denylist) != 2 {
		t.Fatalf("denylist %v", cfg.Denylist)
	}
	// Unset fields keep their defaults.
	if cfg.OracleModel != "gpt-4o-mini" {
		t.Fatalf("model %q", cfg.OracleModel)
	}
	if cfg.OracleToken != "tok" {
		t.Fatalf("token %q", cfg.OracleToken)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(OracleTokenEnv, "tok")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataRoot != "./data" {
		t.Fatalf("data root %q", cfg.DataRoot)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(OracleTokenEnv, "tok")
	t.Setenv("TASKGATE_DATA_ROOT", "/env/root")
	t.Setenv("TASKGATE_LISTEN_ADDR", ":9999")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataRoot != "/env/root" {
		t.Fatalf("data root %q", cfg.DataRoot)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("listen addr %q", cfg.ListenAddr)
	}
}

func TestConfigValidate_RequiresToken(t *testing.T) {
	t.Setenv(OracleTokenEnv, "")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("validate must fail without the oracle token")
	}

	cfg.OracleToken = "tok"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
