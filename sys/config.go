package sys

import (
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingToken is returned by LoadConfig when DISCORD_TOKEN is required but unset.
var ErrMissingToken = errors.New(MsgConfigMissingToken)

var validate = validator.New()

type Config struct {
	Token string `envconfig:"DISCORD_TOKEN" validate:"required_if=RequireToken true"`
	// RequireToken enables the early credential check. Without it a missing
	// token surfaces later, when the client is created.
	RequireToken bool   `envconfig:"REQUIRE_TOKEN" default:"true"`
	Port         string `envconfig:"PORT" default:"3000" validate:"required,numeric"`
	GuildID      string `envconfig:"GUILD_ID" validate:"omitempty,numeric,min=17,max=20"`
	Silent       bool   `envconfig:"SILENT"`

	WelcomeChannelID string `envconfig:"WELCOME_CHANNEL_ID" default:"1417740297030602854" validate:"required,numeric"`
	RulesChannelID   string `envconfig:"RULES_CHANNEL_ID" default:"1417741717288779937" validate:"required,numeric"`
	ChatChannelID    string `envconfig:"CHAT_CHANNEL_ID" default:"1417563604252758190" validate:"required,numeric"`
	OwnerUserID      string `envconfig:"OWNER_USER_ID" default:"1169065695867322411" validate:"required,numeric"`
	BannerURL        string `envconfig:"WELCOME_BANNER_URL" default:"https://cdn.discordapp.com/banners/1417732734591307836/8bfde384640e1937452804550ff0b50a.png?size=1024" validate:"required,url"`

	Welcome WelcomeConfig `ignored:"true"`
}

// WelcomeConfig holds the parsed references embedded in the welcome message.
type WelcomeConfig struct {
	ChannelID      snowflake.ID
	RulesChannelID snowflake.ID
	ChatChannelID  snowflake.ID
	OwnerID        snowflake.ID
	BannerURL      string
}

// Validate ensures the configuration is valid and meets requirements.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.StructField() == "Token" {
			return ErrMissingToken
		}
	}
	fe := verrs[0]
	return fmt.Errorf("invalid %s: failed %q check", envName(fe.StructField()), fe.Tag())
}

// GuildSnowflake returns the dev-mode guild, if one is configured.
func (c *Config) GuildSnowflake() (snowflake.ID, bool) {
	if c.GuildID == "" {
		return 0, false
	}
	id, err := snowflake.Parse(c.GuildID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	welcome, err := parseWelcome(&cfg)
	if err != nil {
		return nil, err
	}
	cfg.Welcome = welcome

	if cfg.Silent {
		SetSilentMode(true)
	}

	return &cfg, nil
}

func parseWelcome(c *Config) (WelcomeConfig, error) {
	w := WelcomeConfig{BannerURL: c.BannerURL}
	ids := []struct {
		field string
		raw   string
		dst   *snowflake.ID
	}{
		{"WelcomeChannelID", c.WelcomeChannelID, &w.ChannelID},
		{"RulesChannelID", c.RulesChannelID, &w.RulesChannelID},
		{"ChatChannelID", c.ChatChannelID, &w.ChatChannelID},
		{"OwnerUserID", c.OwnerUserID, &w.OwnerID},
	}

	for _, id := range ids {
		parsed, err := snowflake.Parse(id.raw)
		if err != nil {
			return WelcomeConfig{}, fmt.Errorf("invalid %s: %w", envName(id.field), err)
		}
		*id.dst = parsed
	}
	return w, nil
}

func envName(field string) string {
	switch field {
	case "Token":
		return "DISCORD_TOKEN"
	case "Port":
		return "PORT"
	case "GuildID":
		return "GUILD_ID"
	case "WelcomeChannelID":
		return "WELCOME_CHANNEL_ID"
	case "RulesChannelID":
		return "RULES_CHANNEL_ID"
	case "ChatChannelID":
		return "CHAT_CHANNEL_ID"
	case "OwnerUserID":
		return "OWNER_USER_ID"
	case "BannerURL":
		return "WELCOME_BANNER_URL"
	default:
		return field
	}
}
