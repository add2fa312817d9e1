package forum

import "testing"

func TestGateIsModerator(t *testing.T) {
	gate := NewGate([]string{"mod-1", "mod-2"})

	tests := []struct {
		name     string
		userID   string
		expected bool
	}{
		{"listed moderator", "mod-1", true},
		{"second listed moderator", "mod-2", true},
		{"regular user", "user-1", false},
		{"empty id", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.IsModerator(tt.userID); got != tt.expected {
				t.Errorf("IsModerator(%q) = %v, want %v", tt.userID, got, tt.expected)
			}
		})
	}
}

func TestGateCanModify(t *testing.T) {
	gate := NewGate([]string{"mod-1"})

	tests := []struct {
		name     string
		userID   string
		ownerID  string
		expected bool
	}{
		{"owner", "user-1", "user-1", true},
		{"moderator on another user's content", "mod-1", "user-1", true},
		{"non-owner non-moderator", "user-2", "user-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.CanModify(tt.userID, tt.ownerID); got != tt.expected {
				t.Errorf("CanModify(%q, %q) = %v, want %v", tt.userID, tt.ownerID, got, tt.expected)
			}
		})
	}
}

func TestGateEmptyList(t *testing.T) {
	gate := NewGate(nil)
	if gate.IsModerator("anyone") {
		t.Error("Empty gate should have no moderators")
	}
	if !gate.CanModify("user-1", "user-1") {
		t.Error("Owners can always modify their own content")
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"with name", User{ID: "u1", Name: "Ada"}, "Ada"},
		{"without name", User{ID: "u1"}, "Someone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
