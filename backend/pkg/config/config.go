package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "portfolio-assistant/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string `mapstructure:"port"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`

	// HTTP surface
	AllowedOrigins  string  `mapstructure:"allowed_origins"` // comma separated, "*" allows all
	RateLimitRPS    float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
	SuggestionLimit int     `mapstructure:"suggestion_limit"`

	// Dataset overrides; empty uses the copies compiled into the binary
	KnowledgeFile string `mapstructure:"knowledge_file"`
	FAQFile       string `mapstructure:"faq_file"`

	// Neo4j mirror (only used by sync-graph)
	Neo4jURI      string `mapstructure:"neo4j_uri"`
	Neo4jUser     string `mapstructure:"neo4j_user"`
	Neo4jPassword string `mapstructure:"neo4j_password"`

	// Discord
	DiscordBotToken string `mapstructure:"discord_bot_token"`

	// MCP
	MCPTransport string `mapstructure:"mcp_transport"` // stdio or http
	MCPPort      string `mapstructure:"mcp_port"`
}

var defaults = map[string]any{
	"port":              "8080",
	"env":               "development",
	"log_level":         "",
	"allowed_origins":   "*",
	"rate_limit_rps":    5.0,
	"rate_limit_burst":  10,
	"suggestion_limit":  3,
	"knowledge_file":    "",
	"faq_file":          "",
	"neo4j_uri":         "bolt://localhost:7687",
	"neo4j_user":        "neo4j",
	"neo4j_password":    "",
	"discord_bot_token": "",
	"mcp_transport":     "stdio",
	"mcp_port":          "8081",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags reads configuration from .env, the environment and, when
// flags is non-nil, any changed command-line flags whose names match a key
// with dashes in place of underscores (e.g. --rate-limit-rps).
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; known {
				_ = v.BindPFlag(key, f)
			}
		})
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.RateLimitRPS <= 0 {
		return apperrors.NewConfigValidationFailed("RATE_LIMIT_RPS", "must be positive")
	}
	if c.RateLimitBurst < 1 {
		return apperrors.NewConfigValidationFailed("RATE_LIMIT_BURST", "must be at least 1")
	}
	if c.SuggestionLimit < 1 {
		return apperrors.NewConfigValidationFailed("SUGGESTION_LIMIT", "must be at least 1")
	}
	switch c.MCPTransport {
	case "stdio", "http":
	default:
		return apperrors.NewConfigValidationFailed("MCP_TRANSPORT", fmt.Sprintf("unsupported transport %q", c.MCPTransport))
	}
	// Neo4j and Discord settings are checked by the commands that need them
	return nil
}

// ValidateNeo4j checks the settings needed to mirror the knowledge graph
func (c *Config) ValidateNeo4j() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	return nil
}

// ValidateDiscord checks the settings needed to run the Discord bot
func (c *Config) ValidateDiscord() error {
	if c.DiscordBotToken == "" {
		return apperrors.NewConfigMissingRequired("DISCORD_BOT_TOKEN")
	}
	return nil
}

// Origins returns the configured CORS origins
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
