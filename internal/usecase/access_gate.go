package usecase

import (
	"net/url"

	"storefront/internal/domain/model"
)

type DecisionKind int

const (
	DecisionWait DecisionKind = iota
	DecisionRender
	DecisionRedirect
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	default:
		return "wait"
	}
}

type GateInput struct {
	AuthLoading bool
	RoleLoading bool
	Identity    *model.Identity
	Roles       model.RoleSet
	Required    []model.Role
	Target      string
}

type Decision struct {
	Kind     DecisionKind
	Location string
}

// AccessGateは表示するかリダイレクトするかを決める
type AccessGate struct {
	signInPath   string
	fallbackPath string
}

func NewAccessGate(signInPath string, fallbackPath string) *AccessGate {
	if signInPath == "" {
		signInPath = "/auth"
	}
	if fallbackPath == "" {
		fallbackPath = "/"
	}
	return &AccessGate{signInPath: signInPath, fallbackPath: fallbackPath}
}

func (g *AccessGate) Decide(in GateInput) Decision {
	// どちらかが読み込み中なら判定しない
	if in.AuthLoading || in.RoleLoading {
		return Decision{Kind: DecisionWait}
	}

	// 未ログインはサインインへ（戻り先を付ける）
	if in.Identity == nil {
		return Decision{
			Kind:     DecisionRedirect,
			Location: g.signInPath + "?redirect=" + url.QueryEscape(in.Target),
		}
	}

	if len(in.Required) == 0 {
		return Decision{Kind: DecisionRender}
	}

	// どれか1つ持っていればOK
	if in.Roles.Intersects(in.Required) {
		return Decision{Kind: DecisionRender}
	}
	return Decision{Kind: DecisionRedirect, Location: g.fallbackPath}
}
