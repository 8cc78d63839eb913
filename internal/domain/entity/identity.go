package entity

// Identity is what a verified bearer token tells us about its holder.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
	Role    string
}

// AuthToken is issued by an identity provider after a password sign-in.
type AuthToken struct {
	UID          string `json:"uid"`
	IDToken      string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}
