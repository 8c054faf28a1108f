package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Capability identifies the authenticated caller. It is established by
// the authentication middleware and threaded through service calls so
// ownership and role checks stay transport-independent.
type Capability struct {
	UserID string
	Role   string
}

func (c Capability) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess reports whether the caller may act on a resource owned by
// ownerID: owners and admins only.
func (c Capability) CanAccess(ownerID string) bool {
	return c.UserID == ownerID || c.IsAdmin()
}
