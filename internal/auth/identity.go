package auth

import "jobtrack/internal/model"

// Identity is the per-request resolved caller: who they are and which role
// they act as. The zero value means unauthenticated. It is resolved once by
// the router middleware and immutable for the request's duration.
type Identity struct {
	UserID uint
	Role   model.UserType
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool {
	return i.UserID == 0
}

// IsContractor reports whether the identity acts as a contractor.
func (i Identity) IsContractor() bool {
	return i.Role == model.UserTypeContractor
}
