// Package config loads runtime settings from an optional YAML file and SHOP_
// environment variables, in that order of precedence (env wins).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvPrefix         = "SHOP_"
	ConfigPathEnv     = "SHOP_CONFIG"
	DefaultConfigPath = "config.yaml"
)

type Config struct {
	Log    Log    `yaml:"log"`
	HTTP   HTTP   `yaml:"http"`
	MCP    MCP    `yaml:"mcp"`
	Store  Store  `yaml:"store"`
	Agent  Agent  `yaml:"agent"`
	Twilio Twilio `yaml:"twilio"`
}

type Log struct {
	Level   string   `yaml:"level" validate:"oneof=debug info warn error"`
	Format  string   `yaml:"format" validate:"oneof=json console"`
	Outputs []string `yaml:"outputs" validate:"min=1"`
}

// HTTP configures the chat server. A non-empty Token is required as a
// bearer token on the /tools endpoints.
type HTTP struct {
	Addr  string `yaml:"addr" validate:"required"`
	Token string `yaml:"token"`
}

// MCP configures the MCP server. A non-empty Token is required as a bearer
// token on /rpc.
type MCP struct {
	Addr  string `yaml:"addr" validate:"required"`
	Token string `yaml:"token"`
}

type Store struct {
	Backend string `yaml:"backend" validate:"oneof=memory sqlite"`
	DSN     string `yaml:"dsn" validate:"required_if=Backend sqlite"`
}

type Agent struct {
	Model       string        `yaml:"model" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	HistorySize int           `yaml:"historySize" validate:"gte=0"`
	HistoryDSN  string        `yaml:"historyDsn" validate:"required"`
}

type Twilio struct {
	AccountSID string `yaml:"accountSid"`
	AuthToken  string `yaml:"authToken"`
	From       string `yaml:"from"`
}

// Configured reports whether every credential needed to send a message is set.
func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// withFallback fills unset credentials from the plain TWILIO_* variables the
// Twilio tooling uses.
func (t Twilio) withFallback(getenv func(string) string) Twilio {
	if t.AccountSID == "" {
		t.AccountSID = getenv("TWILIO_ACCOUNT_SID")
	}
	if t.AuthToken == "" {
		t.AuthToken = getenv("TWILIO_AUTH_TOKEN")
	}
	if t.From == "" {
		t.From = getenv("TWILIO_PHONE_NUMBER")
	}
	return t
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Log: Log{
			Level:   "info",
			Format:  "json",
			Outputs: []string{"stderr"},
		},
		HTTP:  HTTP{Addr: ":8090"},
		MCP:   MCP{Addr: ":8080"},
		Store: Store{Backend: "memory"},
		Agent: Agent{
			Model:       "gpt-4o",
			Timeout:     60 * time.Second,
			HistorySize: 20,
			HistoryDSN:  "conversations.db",
		},
	}
}

// Load reads .env (if present), then the YAML file named by SHOP_CONFIG or
// config.yaml (if present), then SHOP_* variables. SHOP_HTTP_ADDR sets
// http.addr; key segments match case-insensitively.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := LoadFrom(path, os.Environ)
	if err != nil {
		return nil, err
	}
	cfg.Twilio = cfg.Twilio.withFallback(os.Getenv)
	return cfg, nil
}

// LoadFrom is Load with an explicit file path and environment source. A
// missing file is not an error.
func LoadFrom(path string, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat config %s", path)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = canonicalEnvKey(strings.TrimPrefix(key, EnvPrefix), existing)
			if key == "log.outputs" {
				return key, strings.Split(value, ",")
			}
			return key, value
		},
		EnvironFunc: environ,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// canonicalEnvKey turns HTTP_ADDR into http.addr, reusing the spelling of
// any key the config file already set so AGENT_HISTORYSIZE lands on
// agent.historySize rather than beside it.
func canonicalEnvKey(raw string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(raw), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		matched := segment
		var next map[string]any
		for key, value := range current {
			if strings.EqualFold(key, segment) {
				matched = key
				next, _ = value.(map[string]any)
				break
			}
		}
		canonical = append(canonical, matched)
		current = next
	}
	return strings.Join(canonical, ".")
}

// Validate checks the settings for values the binaries cannot start with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
