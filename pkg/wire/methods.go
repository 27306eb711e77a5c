package wire

import (
	"strings"

	"github.com/goliatone/go-profile-events/pkg/events"
)

// Native method names used by the platform layers to deliver notifications.
const (
	MethodProfileInitialized    = "onSoomlaProfileInitialized"
	MethodUserRatingEvent       = "onUserRatingEvent"
	MethodUserProfileUpdated    = "onUserProfileUpdated"
	MethodLoginStarted          = "onLoginStarted"
	MethodLoginFinished         = "onLoginFinished"
	MethodLoginCancelled        = "onLoginCancelled"
	MethodLoginFailed           = "onLoginFailed"
	MethodLogoutStarted         = "onLogoutStarted"
	MethodLogoutFinished        = "onLogoutFinished"
	MethodLogoutFailed          = "onLogoutFailed"
	MethodSocialActionStarted   = "onSocialActionStarted"
	MethodSocialActionFinished  = "onSocialActionFinished"
	MethodSocialActionCancelled = "onSocialActionCancelled"
	MethodSocialActionFailed    = "onSocialActionFailed"
	MethodGetContactsStarted    = "onGetContactsStarted"
	MethodGetContactsFinished   = "onGetContactsFinished"
	MethodGetContactsFailed     = "onGetContactsFailed"
	MethodGetFeedStarted        = "onGetFeedStarted"
	MethodGetFeedFinished       = "onGetFeedFinished"
	MethodGetFeedFailed         = "onGetFeedFailed"
	MethodAddAppRequestStarted  = "onAddAppRequestStarted"
	MethodAddAppRequestFinished = "onAddAppRequestFinished"
	MethodAddAppRequestFailed   = "onAddAppRequestFailed"
)

var methodsByEvent = map[events.Name]string{
	events.NameProfileInitialized:    MethodProfileInitialized,
	events.NameUserRatingRequested:   MethodUserRatingEvent,
	events.NameUserProfileUpdated:    MethodUserProfileUpdated,
	events.NameLoginStarted:          MethodLoginStarted,
	events.NameLoginFinished:         MethodLoginFinished,
	events.NameLoginCancelled:        MethodLoginCancelled,
	events.NameLoginFailed:           MethodLoginFailed,
	events.NameLogoutStarted:         MethodLogoutStarted,
	events.NameLogoutFinished:        MethodLogoutFinished,
	events.NameLogoutFailed:          MethodLogoutFailed,
	events.NameSocialActionStarted:   MethodSocialActionStarted,
	events.NameSocialActionFinished:  MethodSocialActionFinished,
	events.NameSocialActionCancelled: MethodSocialActionCancelled,
	events.NameSocialActionFailed:    MethodSocialActionFailed,
	events.NameContactsStarted:       MethodGetContactsStarted,
	events.NameContactsFinished:      MethodGetContactsFinished,
	events.NameContactsFailed:        MethodGetContactsFailed,
	events.NameFeedStarted:           MethodGetFeedStarted,
	events.NameFeedFinished:          MethodGetFeedFinished,
	events.NameFeedFailed:            MethodGetFeedFailed,
	events.NameAddAppRequestStarted:  MethodAddAppRequestStarted,
	events.NameAddAppRequestFinished: MethodAddAppRequestFinished,
	events.NameAddAppRequestFailed:   MethodAddAppRequestFailed,
}

var eventsByMethod = func() map[string]events.Name {
	out := make(map[string]events.Name, len(methodsByEvent))
	for name, method := range methodsByEvent {
		out[method] = name
	}
	return out
}()

// MethodFor returns the native method that delivers name.
func MethodFor(name events.Name) (string, bool) {
	method, ok := methodsByEvent[name]
	return method, ok
}

// EventFor returns the event delivered by a native method.
func EventFor(method string) (events.Name, bool) {
	name, ok := eventsByMethod[strings.TrimSpace(method)]
	return name, ok
}

// PushMethod converts an inbound method name ("onLoginStarted") to the name
// used when pushing the event back to a native layer ("pushEventLoginStarted").
func PushMethod(method string) string {
	return "pushEvent" + strings.TrimPrefix(method, "on")
}
