package model

// Roles recognized by the gateway.  They mirror the role strings the
// remote auth service embeds in its user records.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the account record returned by the remote auth service on
// login or registration.  No credential material ever reaches this
// process; password handling is entirely the remote service's concern.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
