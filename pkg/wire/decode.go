// Package wire reads and writes the JSON notifications exchanged with the
// native platform layers. Nested documents (payload, userProfile, contacts,
// feeds) travel as JSON encoded strings inside the outer message; inline
// JSON values are accepted as well.
package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/tidwall/gjson"
)

// ErrMalformedMessage reports a missing or structurally invalid field.
var ErrMalformedMessage = errors.New("wire: malformed message")

// Field names used by the native senders.
const (
	FieldProvider         = "provider"
	FieldSocialActionType = "socialActionType"
	FieldPayload          = "payload"
	FieldMessage          = "message"
	FieldUserProfile      = "userProfile"
	FieldContacts         = "contacts"
	FieldFeeds            = "feeds"
	FieldRewardID         = "rewardId"
)

// Message is a parsed outer notification document.
type Message struct {
	raw  string
	root gjson.Result
}

// Parse validates message and returns its root object.
func Parse(message string) (Message, error) {
	if !gjson.Valid(message) {
		return Message{}, fmt.Errorf("%w: invalid json", ErrMalformedMessage)
	}
	root := gjson.Parse(message)
	if !root.IsObject() {
		return Message{}, fmt.Errorf("%w: expected object", ErrMalformedMessage)
	}
	return Message{raw: message, root: root}, nil
}

// Raw returns the original message text.
func (m Message) Raw() string { return m.raw }

// Has reports whether field is present and not null.
func (m Message) Has(field string) bool {
	v := m.root.Get(field)
	return v.Exists() && v.Type != gjson.Null
}

// Provider decodes the numeric provider code.
func (m Message) Provider() (domain.Provider, error) {
	code, err := m.code(FieldProvider)
	if err != nil {
		return 0, err
	}
	provider, err := domain.ProviderFromCode(code)
	if err != nil {
		return 0, fmt.Errorf("wire: field %q: %w", FieldProvider, err)
	}
	return provider, nil
}

// SocialActionType decodes the numeric action code.
func (m Message) SocialActionType() (domain.SocialActionType, error) {
	code, err := m.code(FieldSocialActionType)
	if err != nil {
		return 0, err
	}
	action, err := domain.SocialActionTypeFromCode(code)
	if err != nil {
		return 0, fmt.Errorf("wire: field %q: %w", FieldSocialActionType, err)
	}
	return action, nil
}

// String returns a required string field.
func (m Message) String(field string) (string, error) {
	v := m.root.Get(field)
	if !v.Exists() || v.Type != gjson.String {
		return "", missing(field, "string")
	}
	return v.Str, nil
}

// Payload decodes the string encoded payload document.
func (m Message) Payload() (domain.Payload, error) {
	doc, err := m.document(FieldPayload)
	if err != nil {
		return domain.Payload{}, err
	}
	if !doc.IsObject() {
		return domain.Payload{}, missing(FieldPayload, "object")
	}
	return domain.Payload{
		Value:    doc.Get(FieldPayload).String(),
		RewardID: doc.Get(FieldRewardID).String(),
	}, nil
}

// UserProfile decodes the profile document stored under field.
func (m Message) UserProfile(field string) (domain.UserProfile, error) {
	doc, err := m.document(field)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile, err := decodeProfile(doc)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("wire: field %q: %w", field, err)
	}
	return profile, nil
}

// Profiles decodes a list of profiles (array or object keyed by index) in
// document order.
func (m Message) Profiles(field string) ([]domain.UserProfile, error) {
	doc, err := m.document(field)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() && !doc.IsObject() {
		return nil, missing(field, "list")
	}
	profiles := make([]domain.UserProfile, 0)
	var itemErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		item := value
		if value.Type == gjson.String {
			if !gjson.Valid(value.Str) {
				itemErr = fmt.Errorf("%w: field %q entry %s: invalid json", ErrMalformedMessage, field, entryKey(key, len(profiles)))
				return false
			}
			item = gjson.Parse(value.Str)
		}
		profile, err := decodeProfile(item)
		if err != nil {
			itemErr = fmt.Errorf("wire: field %q entry %s: %w", field, entryKey(key, len(profiles)), err)
			return false
		}
		profiles = append(profiles, profile)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}
	return profiles, nil
}

// Strings decodes a list of strings (array or object keyed by index) in
// document order.
func (m Message) Strings(field string) ([]string, error) {
	doc, err := m.document(field)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() && !doc.IsObject() {
		return nil, missing(field, "list")
	}
	out := make([]string, 0)
	var itemErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			itemErr = fmt.Errorf("%w: field %q entry %s: expected string", ErrMalformedMessage, field, entryKey(key, len(out)))
			return false
		}
		out = append(out, value.Str)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}
	return out, nil
}

func (m Message) code(field string) (int, error) {
	v := m.root.Get(field)
	if !v.Exists() || v.Type != gjson.Number {
		return 0, missing(field, "number")
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("%w: field %q: expected integer, got %s", ErrMalformedMessage, field, v.Raw)
	}
	return int(v.Num), nil
}

// document resolves a nested document that is either string encoded or
// inline.
func (m Message) document(field string) (gjson.Result, error) {
	v := m.root.Get(field)
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return gjson.Result{}, missing(field, "document")
	case v.Type == gjson.String:
		if !gjson.Valid(v.Str) {
			return gjson.Result{}, fmt.Errorf("%w: field %q: invalid nested json", ErrMalformedMessage, field)
		}
		return gjson.Parse(v.Str), nil
	case v.IsObject() || v.IsArray():
		return v, nil
	default:
		return gjson.Result{}, missing(field, "document")
	}
}

var profileFields = map[string]func(*domain.UserProfile, string){
	"email":      func(p *domain.UserProfile, v string) { p.Email = v },
	"username":   func(p *domain.UserProfile, v string) { p.Username = v },
	"firstName":  func(p *domain.UserProfile, v string) { p.FirstName = v },
	"lastName":   func(p *domain.UserProfile, v string) { p.LastName = v },
	"avatarLink": func(p *domain.UserProfile, v string) { p.AvatarLink = v },
	"location":   func(p *domain.UserProfile, v string) { p.Location = v },
	"gender":     func(p *domain.UserProfile, v string) { p.Gender = v },
	"language":   func(p *domain.UserProfile, v string) { p.Language = v },
	"birthday":   func(p *domain.UserProfile, v string) { p.Birthday = v },
}

func decodeProfile(doc gjson.Result) (domain.UserProfile, error) {
	if !doc.IsObject() {
		return domain.UserProfile{}, fmt.Errorf("%w: profile must be an object", ErrMalformedMessage)
	}
	var profile domain.UserProfile

	rawProvider := doc.Get(FieldProvider)
	switch rawProvider.Type {
	case gjson.String:
		provider, err := domain.ProviderFromString(rawProvider.Str)
		if err != nil {
			return domain.UserProfile{}, err
		}
		profile.Provider = provider
	case gjson.Number:
		provider, err := domain.ProviderFromCode(int(rawProvider.Int()))
		if err != nil {
			return domain.UserProfile{}, err
		}
		profile.Provider = provider
	default:
		return domain.UserProfile{}, missing("userProfile.provider", "provider")
	}

	id := doc.Get("profileId")
	if !id.Exists() || id.Type == gjson.Null || id.String() == "" {
		return domain.UserProfile{}, missing("userProfile.profileId", "string")
	}
	profile.ProfileID = id.String()

	for key, set := range profileFields {
		if v := doc.Get(key); v.Exists() && v.Type != gjson.Null {
			set(&profile, v.String())
		}
	}

	if extra := doc.Get("extra"); extra.IsObject() {
		if values, ok := extra.Value().(map[string]any); ok && len(values) > 0 {
			profile.Extra = values
		}
	}
	return profile, nil
}

func missing(field, kind string) error {
	return fmt.Errorf("%w: field %q: expected %s", ErrMalformedMessage, field, kind)
}

func entryKey(key gjson.Result, index int) string {
	if key.Exists() {
		return key.String()
	}
	return fmt.Sprint(index)
}
