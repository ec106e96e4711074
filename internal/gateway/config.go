package gateway

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OracleTokenEnv supplies the bearer credential for the command oracle.
// The process refuses to start without it.
const OracleTokenEnv = "TASKGATE_ORACLE_TOKEN"

// Config is constructed once at startup and passed into each component.
// Nothing in the gateway reads ambient globals after that point.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	DataRoot    string `yaml:"data_root"`
	OracleURL   string `yaml:"oracle_url"`
	OracleModel string `yaml:"oracle_model"`
	SpeechURL   string `yaml:"speech_url"`

	OracleTimeoutSeconds int `yaml:"oracle_timeout_seconds"`
	ExecTimeoutSeconds   int `yaml:"exec_timeout_seconds"`
	FetchTimeoutSeconds  int `yaml:"fetch_timeout_seconds"`

	// Denylist extends the built-in destructive verbs ({"rm", "unlink"}).
	Denylist []string `yaml:"denylist"`

	// OracleToken comes from the environment only, never from the file.
	OracleToken string `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:           ":8000",
		DataRoot:             "./data",
		OracleURL:            "https://aiproxy.sanand.workers.dev/openai/v1/chat/completions",
		OracleModel:          "gpt-4o-mini",
		OracleTimeoutSeconds: 60,
		ExecTimeoutSeconds:   0,
		FetchTimeoutSeconds:  30,
	}
}

// LoadConfig reads the yaml file at path, falling back to defaults when the
// file is absent, then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("TASKGATE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TASKGATE_DATA_ROOT"); v != "" {
		cfg.DataRoot = v
	}
	if v := os.Getenv("TASKGATE_ORACLE_URL"); v != "" {
		cfg.OracleURL = v
	}
	if v := os.Getenv("TASKGATE_SPEECH_URL"); v != "" {
		cfg.SpeechURL = v
	}
	cfg.OracleToken = strings.TrimSpace(os.Getenv(OracleTokenEnv))

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.DataRoot == "" {
		cfg.DataRoot = "./data"
	}
	if cfg.OracleModel == "" {
		cfg.OracleModel = "gpt-4o-mini"
	}
	if cfg.OracleTimeoutSeconds <= 0 {
		cfg.OracleTimeoutSeconds = 60
	}
	if cfg.ExecTimeoutSeconds < 0 {
		cfg.ExecTimeoutSeconds = 0
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = 30
	}
	return cfg, nil
}

// Validate enforces the startup invariants that must fail fast.
func (c Config) Validate() error {
	if c.OracleToken == "" {
		return errors.New(OracleTokenEnv + " is not set in environment variables")
	}
	if strings.TrimSpace(c.DataRoot) == "" {
		return errors.New("data_root must not be empty")
	}
	return nil
}

func (c Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutSeconds) * time.Second
}

func (c Config) ExecTimeout() time.Duration {
	return time.Duration(c.ExecTimeoutSeconds) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
