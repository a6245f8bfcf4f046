package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the server configuration. Values come from an optional JSON file
// and are then overridden by environment variables.
type Config struct {
	ServerAddr  string           `json:"server_addr,omitempty"`
	PublicURL   string           `json:"public_url,omitempty"`
	DatabaseURL string           `json:"database_url,omitempty"`
	LLM         LLMConfig        `json:"llm"`
	Auth        AuthConfig       `json:"auth"`
	Generation  GenerationConfig `json:"generation"`
}

// LLMConfig selects and configures the generative model backend.
type LLMConfig struct {
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// AuthConfig configures session tokens and the OAuth2 identity provider.
type AuthConfig struct {
	SessionSecret string   `json:"session_secret,omitempty"`
	SessionTTL    Duration `json:"session_ttl,omitempty"`
	CookieSecure  bool     `json:"cookie_secure,omitempty"`
	ClientID      string   `json:"client_id,omitempty"`
	ClientSecret  string   `json:"client_secret,omitempty"`
	RedirectURL   string   `json:"redirect_url,omitempty"`
	AuthURL       string   `json:"auth_url,omitempty"`
	TokenURL      string   `json:"token_url,omitempty"`
	UserInfoURL   string   `json:"userinfo_url,omitempty"`
	Scopes        []string `json:"scopes,omitempty"`
	// PruneSchedule drops revoked-session entries once their tokens expire.
	PruneSchedule string `json:"prune_schedule,omitempty"`
}

// GenerationConfig tunes the generation workflow and the stuck-row reconciler.
type GenerationConfig struct {
	StaleAfter        Duration `json:"stale_after,omitempty"`
	ReconcileSchedule string   `json:"reconcile_schedule,omitempty"`
	// ModelTimeout of zero leaves the model client's own default in place.
	ModelTimeout Duration `json:"model_timeout,omitempty"`
}

// Duration is a time.Duration that reads "10m"-style strings from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10m\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		ServerAddr:  ":8080",
		PublicURL:   "http://localhost:8080",
		DatabaseURL: "sqlite:contently.db",
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.5-flash",
			MaxTokens: 8192,
		},
		Auth: AuthConfig{
			SessionTTL:    Duration(7 * 24 * time.Hour),
			Scopes:        []string{"openid", "email", "profile"},
			PruneSchedule: "@hourly",
		},
		Generation: GenerationConfig{
			StaleAfter:        Duration(10 * time.Minute),
			ReconcileSchedule: "@every 1m",
		},
	}
}

// Load reads the JSON config at path (a missing file is not an error),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := GetEnv("PORT", ""); port != "" {
		c.ServerAddr = ":" + strings.TrimPrefix(port, ":")
	}
	c.PublicURL = strings.TrimRight(GetEnv("PUBLIC_URL", c.PublicURL), "/")
	c.DatabaseURL = GetEnv("DATABASE_URL", c.DatabaseURL)

	c.LLM.Provider = GetEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = GetEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.APIKey = GetEnv("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = GetEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.MaxTokens = GetEnvInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)

	c.Auth.SessionSecret = GetEnv("SESSION_SECRET", c.Auth.SessionSecret)
	c.Auth.SessionTTL = Duration(GetEnvDuration("SESSION_TTL", c.Auth.SessionTTL.Std()))
	c.Auth.CookieSecure = GetEnvBool("COOKIE_SECURE", c.Auth.CookieSecure)
	c.Auth.ClientID = GetEnv("OAUTH_CLIENT_ID", c.Auth.ClientID)
	c.Auth.ClientSecret = GetEnv("OAUTH_CLIENT_SECRET", c.Auth.ClientSecret)
	c.Auth.RedirectURL = GetEnv("OAUTH_REDIRECT_URL", c.Auth.RedirectURL)
	c.Auth.AuthURL = GetEnv("OAUTH_AUTH_URL", c.Auth.AuthURL)
	c.Auth.TokenURL = GetEnv("OAUTH_TOKEN_URL", c.Auth.TokenURL)
	c.Auth.UserInfoURL = GetEnv("OAUTH_USERINFO_URL", c.Auth.UserInfoURL)
	c.Auth.PruneSchedule = GetEnv("SESSION_PRUNE_SCHEDULE", c.Auth.PruneSchedule)
	if c.Auth.RedirectURL == "" && c.PublicURL != "" {
		c.Auth.RedirectURL = c.PublicURL + "/auth/callback"
	}

	c.Generation.StaleAfter = Duration(GetEnvDuration("GENERATION_STALE_AFTER", c.Generation.StaleAfter.Std()))
	c.Generation.ReconcileSchedule = GetEnv("RECONCILE_SCHEDULE", c.Generation.ReconcileSchedule)
	c.Generation.ModelTimeout = Duration(GetEnvDuration("MODEL_TIMEOUT", c.Generation.ModelTimeout.Std()))
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Auth.SessionSecret == "" {
		return errors.New("auth.session_secret (SESSION_SECRET) is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("database_url (DATABASE_URL) is required")
	}
	if c.Generation.StaleAfter.Std() <= 0 {
		return errors.New("generation.stale_after must be positive")
	}
	if mt := c.Generation.ModelTimeout.Std(); mt > 0 && c.Generation.StaleAfter.Std() <= mt {
		return fmt.Errorf("generation.stale_after (%s) must exceed model_timeout (%s)",
			c.Generation.StaleAfter.Std(), mt)
	}
	return nil
}
