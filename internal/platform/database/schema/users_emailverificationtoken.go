package schema

// UserEmailVerificationTokenTable represents the 'users.emailverificationtoken' table
type UserEmailVerificationTokenTable struct {
	Table     string
	ID        string
	UserID    string
	Token     string
	ExpiresAt string
	CreatedAt string
}

// UserEmailVerificationToken is the schema definition for users.emailverificationtoken
var UserEmailVerificationToken = UserEmailVerificationTokenTable{
	Table:     "users.emailverificationtoken",
	ID:        "id",
	UserID:    "userid",
	Token:     "token",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserEmailVerificationTokenTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt}
}
