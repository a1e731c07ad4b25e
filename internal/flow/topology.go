package flow

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a canonical department role in the production chain.
type Role string

const (
	RoleBichuv        Role = "bichuv"         // cutting
	RoleTasnif        Role = "tasnif"         // sorting
	RolePechat        Role = "pechat"         // printing
	RolePechatUsluga  Role = "pechat_usluga"  // outsourced printing
	RoleVishivka      Role = "vishivka"       // embroidery
	RoleVishivkaUsl   Role = "vishivka_usluga"
	RoleTikuv         Role = "tikuv" // sewing
	RoleTikuvUsluga   Role = "tikuv_usluga"
	RoleChistka       Role = "chistka"  // cleaning
	RoleKontrol       Role = "kontrol"  // quality control
	RoleDazmol        Role = "dazmol"   // ironing
	RoleUpakovka      Role = "upakovka" // packing
	RoleOmbor         Role = "ombor"    // warehouse, terminal
)

// ErrUnknownDepartmentRole is returned when a department name cannot be
// resolved to a canonical role.
var ErrUnknownDepartmentRole = errors.New("UNKNOWN_DEPARTMENT_ROLE")

// nextRoles is the fixed production chain. Stages with an in-house and an
// outsourced variant fan out and converge on the same next stage.
var nextRoles = map[Role][]Role{
	RoleBichuv:       {RoleTasnif},
	RoleTasnif:       {RolePechat, RolePechatUsluga},
	RolePechat:       {RoleVishivka, RoleVishivkaUsl},
	RolePechatUsluga: {RoleVishivka, RoleVishivkaUsl},
	RoleVishivka:     {RoleTikuv, RoleTikuvUsluga},
	RoleVishivkaUsl:  {RoleTikuv, RoleTikuvUsluga},
	RoleTikuv:        {RoleChistka},
	RoleTikuvUsluga:  {RoleChistka},
	RoleChistka:      {RoleKontrol},
	RoleKontrol:      {RoleDazmol},
	RoleDazmol:       {RoleUpakovka},
	RoleUpakovka:     {RoleOmbor},
	RoleOmbor:        {},
}

// aliases maps legacy department spellings to their canonical role. The
// outsourced variants keep their own identity for accounting but collapse to
// the in-house role for topology decisions.
var aliases = map[string]Role{
	"autsorspechat": RolePechat,
	"autsorstikuv":  RoleTikuv,
}

// Normalize resolves a department name (case-insensitive, alias-aware) to a
// canonical role.
func Normalize(name string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if r, ok := aliases[key]; ok {
		return r, nil
	}
	r := Role(key)
	if _, ok := nextRoles[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDepartmentRole, name)
	}
	return r, nil
}

// Next returns the roles legally reachable from the given department name.
// An empty slice means the role is terminal.
func Next(name string) ([]Role, error) {
	role, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	steps := nextRoles[role]
	out := make([]Role, len(steps))
	copy(out, steps)
	return out, nil
}

// IsTerminal reports whether the department name resolves to the terminal
// warehouse role.
func IsTerminal(name string) (bool, error) {
	role, err := Normalize(name)
	if err != nil {
		return false, err
	}
	return role == RoleOmbor, nil
}

// CanTransition reports whether a pack at department `from` may legally be
// sent to department `to`.
func CanTransition(from, to string) (bool, error) {
	steps, err := Next(from)
	if err != nil {
		return false, err
	}
	target, err := Normalize(to)
	if err != nil {
		return false, err
	}
	for _, s := range steps {
		if s == target {
			return true, nil
		}
	}
	return false, nil
}
