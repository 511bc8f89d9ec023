package models

// CorsPolicyReport describes the effective CORS policy, as printed by the
// configure tool and logged at startup.
type CorsPolicyReport struct {
	Environment      string   `json:"environment"`
	Origins          []string `json:"origins"`
	Methods          []string `json:"methods"`
	Headers          []string `json:"headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
	Secure           bool     `json:"secure"`
	DroppedOrigins   []string `json:"dropped_origins,omitempty"`
	InvalidTokens    []string `json:"invalid_tokens,omitempty"`
}
