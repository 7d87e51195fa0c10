package models

// User represents an account stored in the users table. The stored
// password hash is a salted digest; the salt rotates on password change.
type User struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Salt         string `db:"salt"`
	IsAdmin      bool   `db:"is_admin"`
}

// UserUpdate carries optional user mutations. Nil fields are untouched.
// PasswordHash and Salt are set together when the password changes.
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	Salt         *string
	IsAdmin      *bool
}
