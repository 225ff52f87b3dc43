package transport

// TokenResponse is the body of a successful POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse is the uniform error payload for every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds an error payload.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

// WeeklyBreakdownResponse wraps the per-week statistics supplement.
type WeeklyBreakdownResponse struct {
	TotalWeeks  int         `json:"total_weeks"`
	WeeklyStats interface{} `json:"weekly_stats"`
}
