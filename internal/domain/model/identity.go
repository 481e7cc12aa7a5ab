package model

// Identityは認証済みユーザー。中身はIDとemailだけ
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthStateは認証側から受け取る状態
// Loading中はIdentityが確定していない
type AuthState struct {
	Identity *Identity
	Loading  bool
}

func (s AuthState) IdentityID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}
