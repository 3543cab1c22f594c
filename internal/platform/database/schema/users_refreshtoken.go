package schema

// UserRefreshTokenTable represents the 'users.refreshtoken' table
type UserRefreshTokenTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	IPAddress string
	UserAgent string
	IsRevoked string
	ExpiresAt string
	CreatedAt string
}

// UserRefreshToken is the schema definition for users.refreshtoken
var UserRefreshToken = UserRefreshTokenTable{
	Table:     "users.refreshtoken",
	ID:        "id",
	UserID:    "userid",
	TokenHash: "tokenhash",
	IPAddress: "ipaddress",
	UserAgent: "useragent",
	IsRevoked: "isrevoked",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserRefreshTokenTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.TokenHash, t.IPAddress, t.UserAgent, t.IsRevoked, t.ExpiresAt, t.CreatedAt,
	}
}
