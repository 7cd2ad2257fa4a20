package guard

import (
	"testing"

	"github.com/shopkit-dev/shopkit/pkg/api"
)

// TestDecide tests the full transition table of the pure decision function.
func TestDecide(t *testing.T) {
	admin := &api.User{ID: 2, Name: "Admin", Email: "a@e", Role: api.RoleAdmin}
	member := &api.User{ID: 5, Name: "Member", Email: "m@e", Role: api.RoleMember}

	tests := []struct {
		name      string
		restoring bool
		token     string
		user      *api.User
		required  api.Role
		want      State
	}{
		{
			name:      "restoring always pending",
			restoring: true,
			token:     "tok",
			user:      admin,
			required:  api.RoleAdmin,
			want:      StateRestoring,
		},
		{
			name:     "no token redirects to login",
			required: api.RoleAdmin,
			want:     StateRedirectingToLogin,
		},
		{
			name:     "token without user redirects to login",
			token:    "tok",
			required: api.RoleAdmin,
			want:     StateRedirectingToLogin,
		},
		{
			name:     "wrong role redirects home",
			token:    "tok",
			user:     member,
			required: api.RoleAdmin,
			want:     StateRedirectingToHome,
		},
		{
			name:     "matching role allowed",
			token:    "tok",
			user:     admin,
			required: api.RoleAdmin,
			want:     StateAllowed,
		},
		{
			name:     "member area admits members",
			token:    "tok",
			user:     member,
			required: api.RoleMember,
			want:     StateAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.restoring, tt.token, tt.user, tt.required)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestStateTerminal tests terminality of each state.
func TestStateTerminal(t *testing.T) {
	if StateRestoring.Terminal() {
		t.Error("Restoring must not be terminal")
	}
	for _, s := range []State{StateAllowed, StateRedirectingToLogin, StateRedirectingToHome} {
		if !s.Terminal() {
			t.Errorf("%v must be terminal", s)
		}
	}
}

// TestStateString tests state names.
func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateRestoring, "restoring"},
		{StateAllowed, "allowed"},
		{StateRedirectingToLogin, "redirecting-to-login"},
		{StateRedirectingToHome, "redirecting-to-home"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
