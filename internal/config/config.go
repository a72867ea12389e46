package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Chat      ChatConfig      `mapstructure:"chat"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	GeminiAI  GeminiAIConfig  `mapstructure:"gemini_ai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Search    SearchConfig    `mapstructure:"search"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// LLMConfig selects the upstream model used for every chat turn.
type LLMConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// ChatConfig holds the per-turn policy of the chat gateway. Timeout bounds
// the whole turn, stream included. There is no retry setting: failed turns
// are reported to the caller as they happen.
type ChatConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxMessageLength int           `mapstructure:"max_message_length"`
	SystemPrompt     string        `mapstructure:"system_prompt"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type SearchConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results"`
}

// WalletConfig is the raw Coinbase Wallet connector configuration. It is
// validated into wallet.Settings at startup.
type WalletConfig struct {
	AppName    string   `mapstructure:"app_name"`
	AppLogoURL string   `mapstructure:"app_logo_url"`
	Preference string   `mapstructure:"preference"`
	Chains     []uint64 `mapstructure:"chains"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.expose_headers", []string{"Content-Type", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 1024)

	v.SetDefault("chat.timeout", 60*time.Second)
	v.SetDefault("chat.max_message_length", 4000)
	v.SetDefault("chat.system_prompt", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("gemini_ai.api_key", "")
	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", 5)

	v.SetDefault("wallet.app_name", "FUDSCAN")
	v.SetDefault("wallet.app_logo_url", "")
	v.SetDefault("wallet.preference", "all")
	v.SetDefault("wallet.chains", []uint64{8453, 84532})
}

// LoadConfig reads the optional .env file, then the optional YAML file, and
// lets environment variables override both (OPENAI_API_KEY -> openai.api_key).
// Empty paths are skipped, and a missing .env file is not an error.
func LoadConfig(configPath string, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that the selected provider is known and has credentials.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required for openai provider")
		}
	case ProviderGemini:
		if c.GeminiAI.APIKey == "" {
			return errors.New("GEMINI_AI_API_KEY is required for gemini provider")
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	default:
		return fmt.Errorf("unknown llm provider: %q (must be openai, gemini, or anthropic)", c.LLM.Provider)
	}

	if c.Chat.Timeout <= 0 {
		return errors.New("chat.timeout must be positive")
	}
	if c.Chat.MaxMessageLength <= 0 {
		return errors.New("chat.max_message_length must be positive")
	}
	if c.Search.Enabled && c.Search.APIKey == "" {
		return errors.New("SEARCH_API_KEY is required when search is enabled")
	}
	return nil
}
