package forum

// User is the resolved identity attached to a request by the external
// identity provider. The forum service trusts it and never verifies
// tokens itself.
type User struct {
	ID    string
	Email string
	Name  string
}

// DisplayName returns a name suitable for notification messages
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "Someone"
}

// Gate authorizes mutating operations based on ownership or membership in
// a static moderator allow-list. The list is configuration injected at
// construction time, not per-user data.
type Gate struct {
	moderators map[string]struct{}
}

// NewGate creates a moderation gate from the configured moderator ids
func NewGate(moderatorIDs []string) *Gate {
	mods := make(map[string]struct{}, len(moderatorIDs))
	for _, id := range moderatorIDs {
		mods[id] = struct{}{}
	}
	return &Gate{moderators: mods}
}

// IsModerator reports whether the user is on the moderator allow-list
func (g *Gate) IsModerator(userID string) bool {
	_, ok := g.moderators[userID]
	return ok
}

// CanModify reports whether the user owns the target or is a moderator
func (g *Gate) CanModify(userID, ownerID string) bool {
	return userID == ownerID || g.IsModerator(userID)
}
