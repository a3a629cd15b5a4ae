package recommendation

import (
	"fmt"
	"time"
)

const (
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
)

// Config is read once at startup and handed to NewService. The pipeline
// never looks at the environment itself.
type Config struct {
	GoogleAPIKey string
	GeminiAPIKey string

	BaseURL string
	Model   string
	Timeout time.Duration

	// RequestsPerSecond caps outbound calls; zero disables the limiter.
	RequestsPerSecond float64
	Burst             int
}

// APIKey returns the primary credential, falling back to the secondary one.
func (c Config) APIKey() string {
	if c.GoogleAPIKey != "" {
		return c.GoogleAPIKey
	}
	return c.GeminiAPIKey
}

func (c Config) Configured() bool {
	return c.APIKey() != ""
}

func (c Config) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	return c
}
