package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleShopOwner  Role = "shop_owner"
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
)

// 許可されているロールの一覧
func ValidRoles() []Role {
	return []Role{RoleSuperadmin, RoleShopOwner, RoleUser, RoleAdmin, RoleModerator}
}

// ParseRoleは文字列をロールに変換する。列挙外はfalse
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range ValidRoles() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// user_rolesの1行。(user_id, role)はユニーク
type UserRole struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:ux_user_roles_user_role" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;uniqueIndex:ux_user_roles_user_role" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// RoleSetはロールの集合。複数同時に持てる
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Intersectsはrequiredのどれか1つでも持っていればtrue（OR判定）
func (s RoleSet) Intersects(required []Role) bool {
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var roles []Role
	if err := json.Unmarshal(b, &roles); err != nil {
		return err
	}
	*s = NewRoleSet(roles...)
	return nil
}
