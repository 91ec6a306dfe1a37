package model

// User represents an application user record as stored in the `users`
// table. Handlers never serialize this struct directly.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	FirstName    – given name captured at registration.
//	LastName     – family name captured at registration.
//	Email        – optional contact address.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
	FirstName    string // users.first_name
	LastName     string // users.last_name
	Email        string // users.email
}

// Session models an entry in the `sessions` table. The session id carried
// inside the client's token is never stored; only its SHA-256 hash.
type Session struct {
	ID        uint64 // sessions.id
	Username  string // sessions.username
	TokenHash string // sessions.token_hash
	ExpiresAt int64  // sessions.expires_at (unix seconds)
	RevokedAt *int64 // sessions.revoked_at (nullable)
}
