package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Loaded once at
// startup, immutable afterwards. Mapstructure tags map environment
// variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"

	// AI Configuration
	OpenAIKey string `mapstructure:"OPENAI_API_KEY"`
	ModelID   string `mapstructure:"MODEL_ID"` // e.g., "gpt-4o-mini"

	// SystemInstruction overrides the built-in instruction text when set.
	SystemInstruction string `mapstructure:"SYSTEM_INSTRUCTION"`

	// GenerationTimeout bounds the model call, in seconds.
	GenerationTimeout int `mapstructure:"GENERATION_TIMEOUT_SECONDS"`

	// Advisory size hints passed to the model, not enforced.
	CSSMaxChars int `mapstructure:"CSS_MAX_CHARS"`
	JSMaxChars  int `mapstructure:"JS_MAX_CHARS"`

	// Diagnostics
	SnippetMaxChars int `mapstructure:"SNIPPET_MAX_CHARS"` // cap on responseSnippet in error envelopes
}

// GenerationDeadline is the server-side model call timeout. Keep it
// shorter than any client-side abort timeout so the server answers
// with a clean error before the client gives up on the transport.
func (c Config) GenerationDeadline() time.Duration {
	return time.Duration(c.GenerationTimeout) * time.Second
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Defaults also register the keys so AutomaticEnv can see them.
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("MODEL_ID", "gpt-4o-mini")
	v.SetDefault("SYSTEM_INSTRUCTION", "")
	v.SetDefault("GENERATION_TIMEOUT_SECONDS", 25)
	v.SetDefault("CSS_MAX_CHARS", 1500)
	v.SetDefault("JS_MAX_CHARS", 800)
	v.SetDefault("SNIPPET_MAX_CHARS", 200)

	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found, relying on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.GenerationTimeout <= 0 {
		return Config{}, errors.New("GENERATION_TIMEOUT_SECONDS must be positive")
	}
	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set; generation requests will fail.")
	}

	return config, nil
}
