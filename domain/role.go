package domain

// Role is a ranked permission level, Everyone < Admin < Owner.
// Private chats only use Everyone and Owner.
type Role int

const (
	Everyone Role = iota
	Admin
	Owner
)

func (r Role) String() string {
	switch r {
	case Everyone:
		return "everyone"
	case Admin:
		return "admin"
	case Owner:
		return "owner"
	default:
		return "unknown"
	}
}

// ChatKind distinguishes the two permission tiers.
type ChatKind int

const (
	PrivateChat ChatKind = iota
	GroupChat
)

func (k ChatKind) String() string {
	if k == GroupChat {
		return "group"
	}
	return "private"
}

// Permissions is the minimum role required per chat kind.
type Permissions struct {
	PrivateChat Role
	GroupChat   Role
}

// For returns the required role for the given chat kind.
func (p Permissions) For(kind ChatKind) Role {
	if kind == GroupChat {
		return p.GroupChat
	}
	return p.PrivateChat
}

// GroupRole is the participant status reported by the transport.
type GroupRole struct {
	IsAdmin      bool
	IsSuperAdmin bool
}
