package entity

import (
	"strings"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a back-office operator. UID is the identity string handed over
// by the external token verifier; Role gates admin-only operations.
type User struct {
	ID        int64
	UID       string
	CreatedBy string
	Name      string
	Email     string
	Role      string
}

func (u User) Validate() error {
	if u.UID == "" {
		return fault.New(fault.KindValidation, "user uid is required")
	}
	if u.Name == "" {
		return fault.New(fault.KindValidation, "user name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fault.New(fault.KindValidation, "user email %q is not a valid address", u.Email)
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return fault.New(fault.KindValidation, "unknown role %q", u.Role)
	}
	return nil
}
