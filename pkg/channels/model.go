// Package channels manages per-channel bot configuration records stored
// inside the shared gateway configuration document. It owns the record
// shape, defaulting and validation rules, and the CRUD operations that
// mutate the document without disturbing anything else in it.
package channels

// GroupPolicy controls who may address the bot in a channel.
type GroupPolicy string

const (
	GroupPolicyAllowlist GroupPolicy = "allowlist"
	GroupPolicyOpen      GroupPolicy = "open"
)

// ToolPolicy is a deny-list of capability names the channel's bot instance
// must not invoke.
type ToolPolicy struct {
	Deny []string `json:"deny"`
}

// Channel is one channel's behavior profile, fully defaulted. SystemPrompt
// and Name are stored and returned verbatim; content policy on them is the
// operator's problem, not ours.
type Channel struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	SystemPrompt string      `json:"systemPrompt"`
	Tools        ToolPolicy  `json:"tools"`
	Users        []string    `json:"users"`
	Enabled      bool        `json:"enabled"`
	Paid         bool        `json:"paid"`
	GroupPolicy  GroupPolicy `json:"groupPolicy"`
}

// ChannelPatch carries the fields of a create or update request. Nil means
// "not supplied": updates touch only non-nil fields, creates layer non-nil
// fields over the defaults.
type ChannelPatch struct {
	Name         *string      `json:"name,omitempty"`
	SystemPrompt *string      `json:"systemPrompt,omitempty"`
	Tools        *ToolPolicy  `json:"tools,omitempty"`
	Users        *[]string    `json:"users,omitempty"`
	Enabled      *bool        `json:"enabled,omitempty"`
	Paid         *bool        `json:"paid,omitempty"`
	GroupPolicy  *GroupPolicy `json:"groupPolicy,omitempty"`
}

// DefaultToolDeny returns the deny set applied when a channel has no explicit
// tool policy. A channel must never materialize with an absent or empty deny
// list: missing configuration resolves to this, the most restrictive default.
func DefaultToolDeny() []string {
	return []string{"exec", "write", "edit", "gateway", "cron", "message"}
}

// defaultRecord is the fully-defaulted raw shape for a new channel.
func defaultRecord(id string) map[string]any {
	return map[string]any{
		"name":         id,
		"systemPrompt": "",
		"tools":        map[string]any{"deny": toAnySlice(DefaultToolDeny())},
		"users":        []any{},
		"enabled":      true,
		"paid":         false,
		"groupPolicy":  string(GroupPolicyAllowlist),
	}
}

// fromRecord materializes a raw stored record into a complete Channel.
// Every missing or malformed field resolves to its default; records written
// before a field existed still read back whole.
func fromRecord(id string, raw map[string]any) Channel {
	ch := Channel{
		ID:          id,
		Name:        id,
		Tools:       ToolPolicy{Deny: DefaultToolDeny()},
		Users:       []string{},
		Enabled:     true,
		GroupPolicy: GroupPolicyAllowlist,
	}
	if v, ok := raw["name"].(string); ok && v != "" {
		ch.Name = v
	}
	if v, ok := raw["systemPrompt"].(string); ok {
		ch.SystemPrompt = v
	}
	if tools, ok := raw["tools"].(map[string]any); ok {
		if deny, ok := toStringSlice(tools["deny"]); ok && len(deny) > 0 {
			ch.Tools.Deny = deny
		}
	}
	if users, ok := toStringSlice(raw["users"]); ok {
		ch.Users = users
	}
	if v, ok := raw["enabled"].(bool); ok {
		ch.Enabled = v
	}
	if v, ok := raw["paid"].(bool); ok {
		ch.Paid = v
	}
	if v, ok := raw["groupPolicy"].(string); ok && GroupPolicy(v) == GroupPolicyOpen {
		ch.GroupPolicy = GroupPolicyOpen
	}
	return ch
}

// apply writes the patch's supplied fields onto a raw record. Keys the patch
// does not carry are left exactly as stored, including keys this package does
// not know about.
func (p ChannelPatch) apply(raw map[string]any) {
	if p.Name != nil {
		raw["name"] = *p.Name
	}
	if p.SystemPrompt != nil {
		raw["systemPrompt"] = *p.SystemPrompt
	}
	if p.Tools != nil {
		raw["tools"] = map[string]any{"deny": toAnySlice(p.Tools.Deny)}
	}
	if p.Users != nil {
		raw["users"] = toAnySlice(*p.Users)
	}
	if p.Enabled != nil {
		raw["enabled"] = *p.Enabled
	}
	if p.Paid != nil {
		raw["paid"] = *p.Paid
	}
	if p.GroupPolicy != nil {
		raw["groupPolicy"] = string(*p.GroupPolicy)
	}
}

// validate rejects patch values outside the model's closed enums.
func (p ChannelPatch) validate() error {
	if p.GroupPolicy != nil {
		switch *p.GroupPolicy {
		case GroupPolicyAllowlist, GroupPolicyOpen:
		default:
			return &Error{Code: EInvalid, Msg: "groupPolicy must be \"allowlist\" or \"open\""}
		}
	}
	return nil
}

// toAnySlice keeps stored records JSON-shaped so documents compare equal
// whether they came from memory or from a decode round trip.
func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func toStringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out, true
	default:
		return nil, false
	}
}
