package schema

// UserLoginHistoryTable represents the 'users.loginhistory' table
type UserLoginHistoryTable struct {
	Table         string
	ID            string
	UserID        string
	IPAddress     string
	UserAgent     string
	Outcome       string
	FailureReason string
	CreatedAt     string
}

// UserLoginHistory is the schema definition for users.loginhistory
var UserLoginHistory = UserLoginHistoryTable{
	Table:         "users.loginhistory",
	ID:            "id",
	UserID:        "userid",
	IPAddress:     "ipaddress",
	UserAgent:     "useragent",
	Outcome:       "outcome",
	FailureReason: "failurereason",
	CreatedAt:     "createdat",
}

// Columns returns all standard column names
func (t UserLoginHistoryTable) Columns() []string {
	return []string{t.ID, t.UserID, t.IPAddress, t.UserAgent, t.Outcome, t.FailureReason, t.CreatedAt}
}
