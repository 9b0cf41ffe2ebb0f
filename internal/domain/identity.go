package domain

// Identity is the resolved caller of a core operation. It is always passed
// explicitly; nothing in the core reads ambient session state.
type Identity struct {
	ActorID   *string
	Role      Role
	Email     string
	IP        string
	UserAgent string
}

func (i Identity) Authenticated() bool {
	return i.ActorID != nil && *i.ActorID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}

// CooldownKey names the bucket votes are rate limited against.
func (i Identity) CooldownKey() string {
	if i.Authenticated() {
		return "actor:" + *i.ActorID
	}
	return "ip:" + i.IP
}

func (i Identity) Actor() string {
	if i.ActorID == nil {
		return ""
	}
	return *i.ActorID
}
