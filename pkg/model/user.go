package model

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleGuide    Role = "guide"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
)

func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserSummary is the customer projection attached to role-scoped booking views.
type UserSummary struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}
