package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	IsPremium     string
	EmailVerified string
	Status        string
	LastLoginAt   string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Email:         "email",
	PasswordHash:  "passwordhash",
	Name:          "name",
	IsPremium:     "ispremium",
	EmailVerified: "emailverified",
	Status:        "status",
	LastLoginAt:   "lastloginat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.Name, t.IsPremium,
		t.EmailVerified, t.Status, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
