package wire

import (
	"fmt"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/tidwall/sjson"
)

// Envelope is an event rendered in the native notification format.
type Envelope struct {
	Event   events.Name `json:"event"`
	Method  string      `json:"method"`
	Message string      `json:"message"`
}

// Encode renders evt the way the native senders deliver it, so Parse and
// the relay handlers can read it back.
func Encode(evt events.Event) (Envelope, error) {
	if evt == nil {
		return Envelope{}, fmt.Errorf("wire: event is required")
	}
	method, ok := MethodFor(evt.EventName())
	if !ok {
		return Envelope{}, fmt.Errorf("wire: no native method for %s", evt.EventName())
	}

	b := &builder{doc: "{}"}
	switch e := evt.(type) {
	case events.ProfileInitialized, events.UserRatingRequested:
	case events.UserProfileUpdated:
		b.profile(FieldUserProfile, e.Profile)
	case events.LoginStarted:
		b.provider(e.Provider)
		b.payload(e.Payload)
	case events.LoginFinished:
		b.provider(e.Profile.Provider)
		b.profile(FieldUserProfile, e.Profile)
		b.payload(e.Payload)
	case events.LoginCancelled:
		b.provider(e.Provider)
		b.payload(e.Payload)
	case events.LoginFailed:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
		b.payload(e.Payload)
	case events.LogoutStarted:
		b.provider(e.Provider)
	case events.LogoutFinished:
		b.provider(e.Provider)
	case events.LogoutFailed:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
	case events.SocialActionStarted:
		b.socialAction(e.Provider, e.Action, e.Payload)
	case events.SocialActionFinished:
		b.socialAction(e.Provider, e.Action, e.Payload)
	case events.SocialActionCancelled:
		b.socialAction(e.Provider, e.Action, e.Payload)
	case events.SocialActionFailed:
		b.socialAction(e.Provider, e.Action, e.Payload)
		b.set(FieldMessage, e.Message)
	case events.ContactsStarted:
		b.provider(e.Provider)
		b.payload(e.Payload)
	case events.ContactsFinished:
		b.provider(e.Provider)
		b.contacts(e.Contacts)
		b.payload(e.Payload)
	case events.ContactsFailed:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
		b.payload(e.Payload)
	case events.FeedStarted:
		b.provider(e.Provider)
	case events.FeedFinished:
		b.provider(e.Provider)
		b.feeds(e.Feed)
	case events.FeedFailed:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
	case events.AddAppRequestStarted:
		b.provider(e.Provider)
	case events.AddAppRequestFinished:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
	case events.AddAppRequestFailed:
		b.provider(e.Provider)
		b.set(FieldMessage, e.Message)
	default:
		return Envelope{}, fmt.Errorf("wire: unsupported event %T", evt)
	}
	if b.err != nil {
		return Envelope{}, fmt.Errorf("wire: encode %s: %w", evt.EventName(), b.err)
	}
	return Envelope{Event: evt.EventName(), Method: method, Message: b.doc}, nil
}

// EncodeProfile renders a profile document with the provider as its name.
func EncodeProfile(p domain.UserProfile) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}
	set(FieldProvider, p.Provider.String())
	set("profileId", p.ProfileID)
	optional := []struct {
		key   string
		value string
	}{
		{"email", p.Email},
		{"username", p.Username},
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"avatarLink", p.AvatarLink},
		{"location", p.Location},
		{"gender", p.Gender},
		{"language", p.Language},
		{"birthday", p.Birthday},
	}
	for _, f := range optional {
		if f.value != "" {
			set(f.key, f.value)
		}
	}
	if len(p.Extra) > 0 {
		set("extra", p.Extra)
	}
	if err != nil {
		return "", err
	}
	return doc, nil
}

type builder struct {
	doc string
	err error
}

func (b *builder) set(path string, value any) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.Set(b.doc, path, value)
}

func (b *builder) provider(p domain.Provider) {
	b.set(FieldProvider, p.Code())
}

func (b *builder) payload(value string) {
	if b.err != nil {
		return
	}
	doc, err := sjson.Set("{}", FieldPayload, value)
	if err != nil {
		b.err = err
		return
	}
	b.set(FieldPayload, doc)
}

func (b *builder) socialAction(p domain.Provider, action domain.SocialActionType, payload string) {
	b.provider(p)
	b.set(FieldSocialActionType, action.Code())
	b.payload(payload)
}

func (b *builder) profile(field string, p domain.UserProfile) {
	if b.err != nil {
		return
	}
	doc, err := EncodeProfile(p)
	if err != nil {
		b.err = err
		return
	}
	b.set(field, doc)
}

func (b *builder) contacts(profiles []domain.UserProfile) {
	if b.err != nil {
		return
	}
	list := "[]"
	for _, p := range profiles {
		doc, err := EncodeProfile(p)
		if err == nil {
			list, err = sjson.SetRaw(list, "-1", doc)
		}
		if err != nil {
			b.err = err
			return
		}
	}
	b.set(FieldContacts, list)
}

func (b *builder) feeds(entries []string) {
	if b.err != nil {
		return
	}
	list := "[]"
	for _, entry := range entries {
		var err error
		list, err = sjson.Set(list, "-1", entry)
		if err != nil {
			b.err = err
			return
		}
	}
	b.set(FieldFeeds, list)
}
