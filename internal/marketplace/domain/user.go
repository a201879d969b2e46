package domain

import "errors"

// DefaultPhotoURL is assigned to users who register without a profile photo
const DefaultPhotoURL = "https://randomuser.me/api/portraits/lego/1.jpg"

// User represents a registered marketplace member.
// Password is kept verbatim; the marketplace makes no security claims about it.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
}

// UserDraft carries the fields of a user before an id is assigned
type UserDraft struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Password string
	Photo    string
}

// Validate checks the shape of a user record read from storage
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("user record without id")
	}
	return nil
}

// MatchesLogin reports whether identifier (email or phone) and password both match exactly
func (u User) MatchesLogin(identifier, password string) bool {
	return (u.Email == identifier || u.Phone == identifier) && u.Password == password
}
