package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Backend selects the inference collaborator.
type Backend string

const (
	BackendAgent  Backend = "agent"  // Lyzr-style agent inference endpoint
	BackendVertex Backend = "vertex" // Gemini on Vertex AI
	BackendMock   Backend = "mock"   // canned replies, no network
)

const (
	DefaultAgentEndpoint = "https://agent-prod.studio.lyzr.ai/v3/inference/chat/"
	DefaultAgentID       = "68d99393eee05a60c7647461"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Backend       Backend `yaml:"backend"`
	AgentEndpoint string  `yaml:"agent_endpoint"`
	AgentID       string  `yaml:"agent_id"`
	APIKey        string  `yaml:"-"` // env only, never read from files

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`
	ModelName    string `yaml:"model_name"`

	RevealDelay    time.Duration `yaml:"reveal_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Mode:           ModeLocal,
		Port:           "8080",
		LogLevel:       "info",
		Backend:        BackendAgent,
		AgentEndpoint:  DefaultAgentEndpoint,
		AgentID:        DefaultAgentID,
		GCPLocation:    "us-central1",
		ModelName:      "gemini-2.5-flash-lite",
		RevealDelay:    time.Second,
		RequestTimeout: 15 * time.Second,
		SessionTTL:     30 * time.Minute,
		SweepInterval:  time.Minute,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	// bare integers are milliseconds
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Load builds the config: defaults, then the optional YAML file named by
// ORACLE_CONFIG_FILE, then env vars (a .env file in the working directory is
// loaded first when present), then overrides, which is where command-line
// flags land. The result is validated last.
func Load(overrides ...func(*Config)) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("ORACLE_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	for _, o := range overrides {
		o(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	switch getEnv("ORACLE_MODE", string(c.Mode)) {
	case "gcp":
		c.Mode = ModeGCP
	default:
		c.Mode = ModeLocal
	}

	c.Port = getEnv("ORACLE_PORT", getEnv("PORT", c.Port))
	c.LogLevel = getEnv("ORACLE_LOG_LEVEL", c.LogLevel)

	c.Backend = Backend(getEnv("ORACLE_BACKEND", string(c.Backend)))
	c.AgentEndpoint = getEnv("ORACLE_AGENT_ENDPOINT", c.AgentEndpoint)
	c.AgentID = getEnv("ORACLE_AGENT_ID", c.AgentID)
	c.APIKey = getEnv("ORACLE_API_KEY", c.APIKey)

	c.GCPProjectID = getEnv("ORACLE_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("ORACLE_GCP_LOCATION", c.GCPLocation)
	c.ModelName = getEnv("ORACLE_MODEL_NAME", c.ModelName)

	var err error
	if c.RevealDelay, err = getDurationEnv("ORACLE_REVEAL_DELAY", c.RevealDelay); err != nil {
		return err
	}
	if c.RequestTimeout, err = getDurationEnv("ORACLE_REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	if c.SessionTTL, err = getDurationEnv("ORACLE_SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.SweepInterval, err = getDurationEnv("ORACLE_SWEEP_INTERVAL", c.SweepInterval); err != nil {
		return err
	}
	return nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAgent:
		if c.AgentEndpoint == "" || c.AgentID == "" {
			return errors.New("agent backend needs ORACLE_AGENT_ENDPOINT and ORACLE_AGENT_ID")
		}
		if c.APIKey == "" {
			return errors.New("agent backend needs ORACLE_API_KEY")
		}
	case BackendVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return errors.New("vertex backend needs ORACLE_GCP_PROJECT and ORACLE_GCP_LOCATION")
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return errors.New("ORACLE_GCP_PROJECT must be set in gcp mode")
	}
	if c.RevealDelay < 0 || c.RequestTimeout <= 0 {
		return errors.New("reveal delay must be >= 0 and request timeout > 0")
	}
	return nil
}
