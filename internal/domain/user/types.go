package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RolePlayer Role = "player"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

var roleLevel = map[Role]int{
	RolePlayer: 1,
	RoleOwner:  2,
	RoleAdmin:  3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleLevel[r]
	return ok
}

// AtLeast reports whether r ranks at or above min in the role hierarchy.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleLevel[r]
	want, wantOK := roleLevel[min]
	return ok && wantOK && have >= want
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// UnmarshalText lets decoded tokens and payloads reject unknown roles.
func (r *Role) UnmarshalText(b []byte) error {
	role, err := NewRole(string(b))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
