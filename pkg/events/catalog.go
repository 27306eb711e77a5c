package events

import "github.com/goliatone/go-profile-events/pkg/domain"

// Name identifies an event on the bus.
type Name string

// Event is implemented by every value published on the bus.
type Event interface {
	EventName() Name
}

const (
	NameProfileInitialized    Name = "profile.initialized"
	NameUserRatingRequested   Name = "user.rating_requested"
	NameUserProfileUpdated    Name = "user.profile_updated"
	NameLoginStarted          Name = "login.started"
	NameLoginFinished         Name = "login.finished"
	NameLoginCancelled        Name = "login.cancelled"
	NameLoginFailed           Name = "login.failed"
	NameLogoutStarted         Name = "logout.started"
	NameLogoutFinished        Name = "logout.finished"
	NameLogoutFailed          Name = "logout.failed"
	NameSocialActionStarted   Name = "social_action.started"
	NameSocialActionFinished  Name = "social_action.finished"
	NameSocialActionCancelled Name = "social_action.cancelled"
	NameSocialActionFailed    Name = "social_action.failed"
	NameContactsStarted       Name = "contacts.started"
	NameContactsFinished      Name = "contacts.finished"
	NameContactsFailed        Name = "contacts.failed"
	NameFeedStarted           Name = "feed.started"
	NameFeedFinished          Name = "feed.finished"
	NameFeedFailed            Name = "feed.failed"
	NameAddAppRequestStarted  Name = "app_request.started"
	NameAddAppRequestFinished Name = "app_request.finished"
	NameAddAppRequestFailed   Name = "app_request.failed"
)

// Names lists the catalog in a stable order.
func Names() []Name {
	return []Name{
		NameProfileInitialized,
		NameUserRatingRequested,
		NameUserProfileUpdated,
		NameLoginStarted,
		NameLoginFinished,
		NameLoginCancelled,
		NameLoginFailed,
		NameLogoutStarted,
		NameLogoutFinished,
		NameLogoutFailed,
		NameSocialActionStarted,
		NameSocialActionFinished,
		NameSocialActionCancelled,
		NameSocialActionFailed,
		NameContactsStarted,
		NameContactsFinished,
		NameContactsFailed,
		NameFeedStarted,
		NameFeedFinished,
		NameFeedFailed,
		NameAddAppRequestStarted,
		NameAddAppRequestFinished,
		NameAddAppRequestFailed,
	}
}

type ProfileInitialized struct{}

type UserRatingRequested struct{}

type UserProfileUpdated struct {
	Profile domain.UserProfile
}

type LoginStarted struct {
	Provider domain.Provider
	Payload  string
}

type LoginFinished struct {
	Profile domain.UserProfile
	Payload string
}

type LoginCancelled struct {
	Provider domain.Provider
	Payload  string
}

type LoginFailed struct {
	Provider domain.Provider
	Message  string
	Payload  string
}

type LogoutStarted struct {
	Provider domain.Provider
}

type LogoutFinished struct {
	Provider domain.Provider
}

type LogoutFailed struct {
	Provider domain.Provider
	Message  string
}

type SocialActionStarted struct {
	Provider domain.Provider
	Action   domain.SocialActionType
	Payload  string
}

type SocialActionFinished struct {
	Provider domain.Provider
	Action   domain.SocialActionType
	Payload  string
}

type SocialActionCancelled struct {
	Provider domain.Provider
	Action   domain.SocialActionType
	Payload  string
}

type SocialActionFailed struct {
	Provider domain.Provider
	Action   domain.SocialActionType
	Message  string
	Payload  string
}

type ContactsStarted struct {
	Provider domain.Provider
	Payload  string
}

// ContactsFinished carries the contacts in the order the provider sent them.
type ContactsFinished struct {
	Provider domain.Provider
	Contacts []domain.UserProfile
	Payload  string
}

type ContactsFailed struct {
	Provider domain.Provider
	Message  string
	Payload  string
}

type FeedStarted struct {
	Provider domain.Provider
}

// FeedFinished carries the feed entries in the order the provider sent them.
type FeedFinished struct {
	Provider domain.Provider
	Feed     []string
}

type FeedFailed struct {
	Provider domain.Provider
	Message  string
}

type AddAppRequestStarted struct {
	Provider domain.Provider
}

type AddAppRequestFinished struct {
	Provider domain.Provider
	Message  string
}

type AddAppRequestFailed struct {
	Provider domain.Provider
	Message  string
}

func (ProfileInitialized) EventName() Name    { return NameProfileInitialized }
func (UserRatingRequested) EventName() Name   { return NameUserRatingRequested }
func (UserProfileUpdated) EventName() Name    { return NameUserProfileUpdated }
func (LoginStarted) EventName() Name          { return NameLoginStarted }
func (LoginFinished) EventName() Name         { return NameLoginFinished }
func (LoginCancelled) EventName() Name        { return NameLoginCancelled }
func (LoginFailed) EventName() Name           { return NameLoginFailed }
func (LogoutStarted) EventName() Name         { return NameLogoutStarted }
func (LogoutFinished) EventName() Name        { return NameLogoutFinished }
func (LogoutFailed) EventName() Name          { return NameLogoutFailed }
func (SocialActionStarted) EventName() Name   { return NameSocialActionStarted }
func (SocialActionFinished) EventName() Name  { return NameSocialActionFinished }
func (SocialActionCancelled) EventName() Name { return NameSocialActionCancelled }
func (SocialActionFailed) EventName() Name    { return NameSocialActionFailed }
func (ContactsStarted) EventName() Name       { return NameContactsStarted }
func (ContactsFinished) EventName() Name      { return NameContactsFinished }
func (ContactsFailed) EventName() Name        { return NameContactsFailed }
func (FeedStarted) EventName() Name           { return NameFeedStarted }
func (FeedFinished) EventName() Name          { return NameFeedFinished }
func (FeedFailed) EventName() Name            { return NameFeedFailed }
func (AddAppRequestStarted) EventName() Name  { return NameAddAppRequestStarted }
func (AddAppRequestFinished) EventName() Name { return NameAddAppRequestFinished }
func (AddAppRequestFailed) EventName() Name   { return NameAddAppRequestFailed }

// ProviderOf returns the provider carried by evt, when it has one.
func ProviderOf(evt Event) (domain.Provider, bool) {
	switch e := evt.(type) {
	case UserProfileUpdated:
		return e.Profile.Provider, true
	case LoginStarted:
		return e.Provider, true
	case LoginFinished:
		return e.Profile.Provider, true
	case LoginCancelled:
		return e.Provider, true
	case LoginFailed:
		return e.Provider, true
	case LogoutStarted:
		return e.Provider, true
	case LogoutFinished:
		return e.Provider, true
	case LogoutFailed:
		return e.Provider, true
	case SocialActionStarted:
		return e.Provider, true
	case SocialActionFinished:
		return e.Provider, true
	case SocialActionCancelled:
		return e.Provider, true
	case SocialActionFailed:
		return e.Provider, true
	case ContactsStarted:
		return e.Provider, true
	case ContactsFinished:
		return e.Provider, true
	case ContactsFailed:
		return e.Provider, true
	case FeedStarted:
		return e.Provider, true
	case FeedFinished:
		return e.Provider, true
	case FeedFailed:
		return e.Provider, true
	case AddAppRequestStarted:
		return e.Provider, true
	case AddAppRequestFinished:
		return e.Provider, true
	case AddAppRequestFailed:
		return e.Provider, true
	default:
		return 0, false
	}
}

// Detach returns a copy of evt that shares no maps or slices with it. Every listener receives its own detached copy.
func Detach(evt Event) Event {
	switch e := evt.(type) {
	case UserProfileUpdated:
		e.Profile = e.Profile.Clone()
		return e
	case LoginFinished:
		e.Profile = e.Profile.Clone()
		return e
	case ContactsFinished:
		if e.Contacts != nil {
			contacts := make([]domain.UserProfile, len(e.Contacts))
			for i, c := range e.Contacts {
				contacts[i] = c.Clone()
			}
			e.Contacts = contacts
		}
		return e
	case FeedFinished:
		if e.Feed != nil {
			feed := make([]string, len(e.Feed))
			copy(feed, e.Feed)
			e.Feed = feed
		}
		return e
	default:
		return evt
	}
}
