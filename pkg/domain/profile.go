package domain

// UserProfile describes an authenticated user on a provider. Values are
// built by the wire decoder and treated as immutable afterwards.
type UserProfile struct {
	Provider   Provider
	ProfileID  string
	Email      string
	Username   string
	FirstName  string
	LastName   string
	AvatarLink string
	Location   string
	Gender     string
	Language   string
	Birthday   string
	Extra      map[string]any
}

// FullName joins first and last name when present.
func (p UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Clone returns a copy that does not share the Extra map.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Extra != nil {
		out.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Payload is the caller supplied correlation data attached to an in-flight
// native operation.
type Payload struct {
	// Value is returned unchanged in completion and failure events.
	Value string
	// RewardID optionally names a reward to grant on success.
	RewardID string
}
