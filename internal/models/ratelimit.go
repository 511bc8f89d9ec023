package models

// DefaultRateLimitDetail is the message sent with every 429 response.
const DefaultRateLimitDetail = "Rate limit exceeded. Please try again later."

// RateLimitExceededResponse is the body of a 429 response.
type RateLimitExceededResponse struct {
	Detail            string `json:"detail"`
	RetryAfterSeconds int    `json:"retry_after_seconds" validate:"gt=0"`
}

// NewRateLimitExceededResponse builds the 429 body with the default detail.
func NewRateLimitExceededResponse(retryAfterSeconds int) RateLimitExceededResponse {
	return RateLimitExceededResponse{
		Detail:            DefaultRateLimitDetail,
		RetryAfterSeconds: retryAfterSeconds,
	}
}
