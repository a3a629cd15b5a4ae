package recommendation

import "fmt"

// Health describes whether a credential is present without revealing it.
type Health struct {
	Configured           bool              `json:"configured"`
	Status               string            `json:"status"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
}

func (s *service) Health() Health {
	h := Health{
		Configured: s.cfg.Configured(),
		Status:     "AI service not configured - API key missing",
		EnvironmentVariables: map[string]string{
			EnvGoogleAPIKey: presence(s.cfg.GoogleAPIKey),
			EnvGeminiAPIKey: presence(s.cfg.GeminiAPIKey),
		},
	}
	if h.Configured {
		h.Status = "AI service is ready"
	}
	return h
}

func presence(v string) string {
	if v == "" {
		return "NOT SET"
	}
	return fmt.Sprintf("SET (length: %d)", len(v))
}
