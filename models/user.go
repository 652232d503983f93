package models

import "unicode/utf8"

// Maximum stored lengths, in bytes, of the string columns copied out of the
// users table on login. Longer values are cut at the limit.
const (
	MaxUsernameLen  = 99
	MaxPasswordLen  = 99
	MaxFirstNameLen = 99
	MaxLastNameLen  = 99
	MaxEmailLen     = 149
	MaxRoleLen      = 19
)

// User represents an account in the academic system.
// It maps to the `users` table in SQLite.
type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"-"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Role      Role   `db:"role" json:"role"`
}

// Truncate cuts every string field to its maximum stored length.
func (u *User) Truncate() {
	u.Username = TruncateString(u.Username, MaxUsernameLen)
	u.Password = TruncateString(u.Password, MaxPasswordLen)
	u.FirstName = TruncateString(u.FirstName, MaxFirstNameLen)
	u.LastName = TruncateString(u.LastName, MaxLastNameLen)
	u.Email = TruncateString(u.Email, MaxEmailLen)
	u.Role = Role(TruncateString(string(u.Role), MaxRoleLen))
}

// TruncateString returns s cut to at most max bytes. The cut backs off to the
// previous rune boundary so the result is always valid UTF-8 when s is.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
