package schema

// UserPasswordResetTokenTable represents the 'users.passwordresettoken' table
type UserPasswordResetTokenTable struct {
	Table     string
	ID        string
	UserID    string
	Token     string
	IsUsed    string
	ExpiresAt string
	CreatedAt string
}

// UserPasswordResetToken is the schema definition for users.passwordresettoken
var UserPasswordResetToken = UserPasswordResetTokenTable{
	Table:     "users.passwordresettoken",
	ID:        "id",
	UserID:    "userid",
	Token:     "token",
	IsUsed:    "isused",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserPasswordResetTokenTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Token, t.IsUsed, t.ExpiresAt, t.CreatedAt}
}
