package users

// User is one row of the users table.
type User struct {
	ID    int64
	Email string
	Name  string
}
