package models

type OrganisationType string

const (
	Seller OrganisationType = "seller"
	Client OrganisationType = "client"
)

type Organisation struct {
	Id    ID               `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Phone string           `json:"phone"`
	Type  OrganisationType `json:"type"`
}

// Session identity fields persisted after login.
type User struct {
	Token  string `json:"token"`
	UserId ID     `json:"user_id"`
	Email  string `json:"email"`
}
