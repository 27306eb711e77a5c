package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownProviderCode is returned when a wire code has no Provider.
	ErrUnknownProviderCode = errors.New("domain: unknown provider code")
	// ErrUnknownActionCode is returned when a wire code has no SocialActionType.
	ErrUnknownActionCode = errors.New("domain: unknown social action code")
)

// Provider identifies a social platform. The numeric codes are shared with
// the native senders and must stay in sync with them.
type Provider int

const (
	ProviderFacebook Provider = iota
	ProviderFoursquare
	ProviderGoogle
	ProviderLinkedIn
	ProviderMySpace
	ProviderTwitter
	ProviderYahoo
	ProviderSalesforce
	ProviderYammer
	ProviderRunKeeper
	ProviderInstagram
	ProviderFlickr
)

var providerNames = [...]string{
	ProviderFacebook:   "facebook",
	ProviderFoursquare: "foursquare",
	ProviderGoogle:     "google",
	ProviderLinkedIn:   "linkedin",
	ProviderMySpace:    "myspace",
	ProviderTwitter:    "twitter",
	ProviderYahoo:      "yahoo",
	ProviderSalesforce: "salesforce",
	ProviderYammer:     "yammer",
	ProviderRunKeeper:  "runkeeper",
	ProviderInstagram:  "instagram",
	ProviderFlickr:     "flickr",
}

// Providers returns every known provider ordered by code.
func Providers() []Provider {
	out := make([]Provider, len(providerNames))
	for i := range providerNames {
		out[i] = Provider(i)
	}
	return out
}

// ProviderFromCode maps a wire code to its Provider.
func ProviderFromCode(code int) (Provider, error) {
	if code < 0 || code >= len(providerNames) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownProviderCode, code)
	}
	return Provider(code), nil
}

// ProviderFromString parses the symbolic provider name (case insensitive).
func ProviderFromString(name string) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range providerNames {
		if candidate == key {
			return Provider(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProviderCode, name)
}

// Code returns the wire code.
func (p Provider) Code() int { return int(p) }

// Valid reports whether p is part of the code table.
func (p Provider) Valid() bool {
	return p >= 0 && int(p) < len(providerNames)
}

func (p Provider) String() string {
	if !p.Valid() {
		return fmt.Sprintf("provider(%d)", int(p))
	}
	return providerNames[p]
}

// SocialActionType is the category of a sharing action.
type SocialActionType int

const (
	ActionUpdateStatus SocialActionType = iota
	ActionUpdateStory
	ActionUploadImage
	ActionGetContacts
	ActionGetFeed
)

var actionNames = [...]string{
	ActionUpdateStatus: "update_status",
	ActionUpdateStory:  "update_story",
	ActionUploadImage:  "upload_image",
	ActionGetContacts:  "get_contacts",
	ActionGetFeed:      "get_feed",
}

// SocialActionTypes returns every known action ordered by code.
func SocialActionTypes() []SocialActionType {
	out := make([]SocialActionType, len(actionNames))
	for i := range actionNames {
		out[i] = SocialActionType(i)
	}
	return out
}

// SocialActionTypeFromCode maps a wire code to its SocialActionType.
func SocialActionTypeFromCode(code int) (SocialActionType, error) {
	if code < 0 || code >= len(actionNames) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownActionCode, code)
	}
	return SocialActionType(code), nil
}

// Code returns the wire code.
func (a SocialActionType) Code() int { return int(a) }

// Valid reports whether a is part of the code table.
func (a SocialActionType) Valid() bool {
	return a >= 0 && int(a) < len(actionNames)
}

func (a SocialActionType) String() string {
	if !a.Valid() {
		return fmt.Sprintf("social_action(%d)", int(a))
	}
	return actionNames[a]
}
