package entity

// User is an account record in the users collection.
// The password hash never leaves the service layer in responses.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// PublicView is the projection returned to clients after login.
type PublicView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, Username: u.Username}
}
