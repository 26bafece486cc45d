package user

import "time"

const (
	UserTypeUser    = "user"
	UserTypeCompany = "company"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignOnToken is a magic-link token sent by email. A token is single
// purpose and expires server side.
type SignOnToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
