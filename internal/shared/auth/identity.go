package auth

// Identity is the signed-in user attached to a request.
type Identity struct {
	SessionID string `json:"-"`
	UserID    string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture,omitempty"`
}
