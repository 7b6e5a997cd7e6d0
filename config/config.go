// Package config loads scribe's configuration from defaults, an optional
// YAML file, environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/languagetool"
	"github.com/fwojciec/scribe/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "SCRIBE"

// APIKeyEnv lists the environment variables searched for the Gemini API key,
// in order.
var APIKeyEnv = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "SCRIBE_LLM_API_KEY"}

// Config stores all configuration of the application.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Grammar GrammarConfig `mapstructure:"grammar"`
	WordNet WordNetConfig `mapstructure:"wordnet"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// LLMConfig configures the Gemini provider.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`     // per turn
	NativeTools bool          `mapstructure:"native_tools"` // send function declarations
	MaxTokens   int           `mapstructure:"max_tokens"`  // 0 = provider default
}

// GrammarConfig configures the LanguageTool client.
type GrammarConfig struct {
	URL      string        `mapstructure:"url"`
	Language string        `mapstructure:"language"`
	Policy   string        `mapstructure:"policy"` // substring or offset
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WordNetConfig locates the lexical database.
type WordNetConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"` // idle time before a session is dropped
	MaxSessions int           `mapstructure:"max_sessions"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"` // used by the terminal UI
}

// Flag names registered by [RegisterFlags].
const (
	FlagConfig        = "config"
	FlagAPIKey        = "api-key"
	FlagModel         = "model"
	FlagAddr          = "addr"
	FlagWordNetPath   = "wordnet-db"
	FlagGrammarPolicy = "grammar-policy"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
)

var flagKeys = map[string]string{
	FlagAPIKey:        "llm.api_key",
	FlagModel:         "llm.model",
	FlagAddr:          "server.addr",
	FlagWordNetPath:   "wordnet.path",
	FlagGrammarPolicy: "grammar.policy",
	FlagLogLevel:      "log.level",
	FlagLogFormat:     "log.format",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a scribe.yaml config file")
	fs.String(FlagAPIKey, "", "Gemini API key")
	fs.String(FlagModel, "", "Gemini model ID")
	fs.String(FlagAddr, "", "web server listen address")
	fs.String(FlagWordNetPath, "", "path to the WordNet SQLite database")
	fs.String(FlagGrammarPolicy, "", "grammar correction policy (substring or offset)")
	fs.String(FlagLogLevel, "", "log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, "", "log format (console or json)")
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-pro")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.native_tools", true)
	v.SetDefault("llm.max_tokens", 0)

	v.SetDefault("grammar.url", languagetool.DefaultURL)
	v.SetDefault("grammar.language", "en")
	v.SetDefault("grammar.policy", string(languagetool.PolicySubstring))
	v.SetDefault("grammar.timeout", "30s")

	v.SetDefault("wordnet.path", filepath.Join(home, ".scribe", "wordnet.db"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("server.max_sessions", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("log.file", filepath.Join(home, ".scribe", "scribe.log"))
}

// Load reads the configuration. fs may be nil; only flags that were set on
// the command line override other sources. The API key is not required
// here, see [Config.RequireAPIKey].
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	setDefaults(v, home)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(append([]string{"llm.api_key"}, APIKeyEnv...)...); err != nil {
		return nil, fmt.Errorf("bind api key env: %w", err)
	}

	configFile := ""
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("scribe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".scribe"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.WordNet.Path = expandHome(cfg.WordNet.Path, home)
	cfg.Log.File = expandHome(cfg.Log.File, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations. Violations wrap
// [scribe.ErrValidation].
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative"))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must not be negative"))
	}
	if c.Grammar.Timeout < 0 {
		errs = append(errs, fmt.Errorf("grammar.timeout must not be negative"))
	}
	if _, err := languagetool.ParsePolicy(c.Grammar.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.WordNet.Path == "" {
		errs = append(errs, fmt.Errorf("wordnet.path is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be %q or %q", c.Log.Format, logging.FormatConsole, logging.FormatJSON))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w: %w", errors.Join(errs...), scribe.ErrValidation)
	}
	return nil
}

// RequireAPIKey returns [scribe.ErrMissingAPIKey] with a hint naming the
// accepted environment variables when no key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	return fmt.Errorf("%w: set one of %s or pass --%s", scribe.ErrMissingAPIKey, strings.Join(APIKeyEnv, ", "), FlagAPIKey)
}

// GrammarPolicy returns the parsed grammar policy.
func (c *Config) GrammarPolicy() languagetool.Policy {
	p, err := languagetool.ParsePolicy(c.Grammar.Policy)
	if err != nil {
		return languagetool.PolicySubstring
	}
	return p
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}
