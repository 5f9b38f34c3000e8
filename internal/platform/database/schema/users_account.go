package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Username   string
	Email      string
	Role       string
	FirstName  string
	LastName   string
	Bio        string
	CodeHash   string
	IsVerified string
	CreatedAt  string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Username:   "username",
	Email:      "email",
	Role:       "role",
	FirstName:  "firstname",
	LastName:   "lastname",
	Bio:        "bio",
	CodeHash:   "confirmationcodehash",
	IsVerified: "isverified",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.FirstName, t.LastName, t.Bio,
		t.CodeHash, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}
