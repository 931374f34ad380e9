package types

// AuthTokenKey is the fixed key the session token is persisted under.
const AuthTokenKey = "authToken"

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the 2xx body of the auth endpoints.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// AuthError is the non-2xx body of the auth endpoints.
type AuthError struct {
	Reason string `json:"error"`
}

func (e *AuthError) Error() string {
	return e.Reason
}
