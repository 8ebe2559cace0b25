package authkit

import "time"

// Identity is the authenticated account view attached to requests and
// returned by account operations. It never carries the password hash or the
// stored refresh token.
type Identity struct {
	AccountID string
	Username  string
	Email     string
	FullName  string
	CreatedAt time.Time
}

// TokenPair is the access/refresh pair returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterRequest is the input for [Engine.Register]. All fields are
// required; username and email are trimmed and folded to lowercase before
// uniqueness is checked.
type RegisterRequest struct {
	Username string
	Email    string
	FullName string
	Password string
}

// LoginRequest is the input for [Engine.Login]. Password plus at least one
// of Username/Email is required.
type LoginRequest struct {
	Username string
	Email    string
	Password string
}
