package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full configuration for the server and the terminal client.
// Values come from defaults, an optional YAML file, and BRANDSITE_* env
// vars, in increasing precedence.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Chat      ChatConfig      `mapstructure:"chat"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Client    ClientConfig    `mapstructure:"client"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ProviderConfig holds the hosted-LLM credentials. An empty APIKey is not
// an error here; the engine reports itself unconfigured and the handlers
// answer with a configuration notice instead of crashing.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ChatConfig struct {
	HistoryWindow    int           `mapstructure:"history_window"`
	MaxMessageChars  int           `mapstructure:"max_message_chars"`
	FirstByteTimeout time.Duration `mapstructure:"first_byte_timeout"`
}

type RateLimitConfig struct {
	Chat WindowConfig `mapstructure:"chat"`
	API  WindowConfig `mapstructure:"api"`
}

type WindowConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// ClientConfig drives the terminal assistant client.
type ClientConfig struct {
	ServerURL    string        `mapstructure:"server_url"`
	Page         string        `mapstructure:"page"`
	TurnTimeout  time.Duration `mapstructure:"turn_timeout"`
	SpeakCommand string        `mapstructure:"speak_command"`
	Muted        bool          `mapstructure:"muted"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
	v.SetDefault("provider.model", "gpt-4o-mini")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.max_message_chars", 1000)
	v.SetDefault("chat.first_byte_timeout", 15*time.Second)
	v.SetDefault("ratelimit.chat.limit", 10)
	v.SetDefault("ratelimit.chat.window", time.Minute)
	v.SetDefault("ratelimit.api.limit", 100)
	v.SetDefault("ratelimit.api.window", time.Minute)
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.page", "home")
	v.SetDefault("client.turn_timeout", 45*time.Second)
	v.SetDefault("client.speak_command", "")
	v.SetDefault("client.muted", true)
}

// Load reads configuration. cfgFile may be empty, in which case only
// defaults and environment apply. A missing explicit file is an error; a
// missing default search-path file is not.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BRANDSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider key is conventionally set as OPENAI_API_KEY; honor it
	// without requiring the prefixed form.
	_ = v.BindEnv("provider.api_key", "BRANDSITE_PROVIDER_API_KEY", "OPENAI_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("brandsite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/brandsite")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
