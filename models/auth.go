package models

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and refresh. The refresh credential
// travels separately as an HTTP-only cookie and is never visible here.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ErrorResponse is the backend's error payload. Some endpoints use
// "message", others "error".
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Text returns whichever of the message fields is populated
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
