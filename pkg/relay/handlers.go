package relay

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/redact"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

func (r *Relay) routes() map[string]func(context.Context, string) error {
	return map[string]func(context.Context, string) error{
		wire.MethodProfileInitialized:    r.OnProfileInitialized,
		wire.MethodUserRatingEvent:       r.OnUserRatingEvent,
		wire.MethodUserProfileUpdated:    r.OnUserProfileUpdated,
		wire.MethodLoginStarted:          r.OnLoginStarted,
		wire.MethodLoginFinished:         r.OnLoginFinished,
		wire.MethodLoginCancelled:        r.OnLoginCancelled,
		wire.MethodLoginFailed:           r.OnLoginFailed,
		wire.MethodLogoutStarted:         r.OnLogoutStarted,
		wire.MethodLogoutFinished:        r.OnLogoutFinished,
		wire.MethodLogoutFailed:          r.OnLogoutFailed,
		wire.MethodSocialActionStarted:   r.OnSocialActionStarted,
		wire.MethodSocialActionFinished:  r.OnSocialActionFinished,
		wire.MethodSocialActionCancelled: r.OnSocialActionCancelled,
		wire.MethodSocialActionFailed:    r.OnSocialActionFailed,
		wire.MethodGetContactsStarted:    r.OnGetContactsStarted,
		wire.MethodGetContactsFinished:   r.OnGetContactsFinished,
		wire.MethodGetContactsFailed:     r.OnGetContactsFailed,
		wire.MethodGetFeedStarted:        r.OnGetFeedStarted,
		wire.MethodGetFeedFinished:       r.OnGetFeedFinished,
		wire.MethodGetFeedFailed:         r.OnGetFeedFailed,
		wire.MethodAddAppRequestStarted:  r.OnAddAppRequestStarted,
		wire.MethodAddAppRequestFinished: r.OnAddAppRequestFinished,
		wire.MethodAddAppRequestFailed:   r.OnAddAppRequestFailed,
	}
}

// OnProfileInitialized raises ProfileInitialized. The message is ignored.
func (r *Relay) OnProfileInitialized(ctx context.Context, message string) error {
	r.metrics.NotificationReceived(wire.MethodProfileInitialized)
	return r.dispatch(ctx, wire.MethodProfileInitialized, message, events.ProfileInitialized{})
}

// OnUserRatingEvent raises UserRatingRequested. The message is ignored.
func (r *Relay) OnUserRatingEvent(ctx context.Context, message string) error {
	r.metrics.NotificationReceived(wire.MethodUserRatingEvent)
	return r.dispatch(ctx, wire.MethodUserRatingEvent, message, events.UserRatingRequested{})
}

func (r *Relay) OnUserProfileUpdated(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodUserProfileUpdated, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		profile, err := msg.UserProfile(wire.FieldUserProfile)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("relay: profile updated", profileFields(profile)...)
		return events.UserProfileUpdated{Profile: profile}, nil
	})
}

func (r *Relay) OnLoginStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLoginStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.LoginStarted{Provider: provider, Payload: payload.Value}, nil
	})
}

// OnLoginFinished grants the payload reward, if any, before raising LoginFinished.
func (r *Relay) OnLoginFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLoginFinished, message, func(ctx context.Context, msg wire.Message) (events.Event, error) {
		profile, err := msg.UserProfile(wire.FieldUserProfile)
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		r.logger.Debug("relay: login finished", profileFields(profile)...)
		r.grantReward(ctx, events.NameLoginFinished, profile.Provider, payload)
		return events.LoginFinished{Profile: profile, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnLoginCancelled(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLoginCancelled, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.LoginCancelled{Provider: provider, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnLoginFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLoginFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.LoginFailed{Provider: provider, Message: text, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnLogoutStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLogoutStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		return events.LogoutStarted{Provider: provider}, nil
	})
}

func (r *Relay) OnLogoutFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLogoutFinished, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		return events.LogoutFinished{Provider: provider}, nil
	})
}

func (r *Relay) OnLogoutFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodLogoutFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		return events.LogoutFailed{Provider: provider, Message: text}, nil
	})
}

func (r *Relay) OnSocialActionStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodSocialActionStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		sa, err := decodeSocialAction(msg)
		if err != nil {
			return nil, err
		}
		return events.SocialActionStarted{Provider: sa.provider, Action: sa.action, Payload: sa.payload.Value}, nil
	})
}

// OnSocialActionFinished grants the payload reward, if any, before raising
// SocialActionFinished.
func (r *Relay) OnSocialActionFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodSocialActionFinished, message, func(ctx context.Context, msg wire.Message) (events.Event, error) {
		sa, err := decodeSocialAction(msg)
		if err != nil {
			return nil, err
		}
		r.grantReward(ctx, events.NameSocialActionFinished, sa.provider, sa.payload)
		return events.SocialActionFinished{Provider: sa.provider, Action: sa.action, Payload: sa.payload.Value}, nil
	})
}

func (r *Relay) OnSocialActionCancelled(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodSocialActionCancelled, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		sa, err := decodeSocialAction(msg)
		if err != nil {
			return nil, err
		}
		return events.SocialActionCancelled{Provider: sa.provider, Action: sa.action, Payload: sa.payload.Value}, nil
	})
}

func (r *Relay) OnSocialActionFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodSocialActionFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		sa, err := decodeSocialAction(msg)
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		return events.SocialActionFailed{Provider: sa.provider, Action: sa.action, Message: text, Payload: sa.payload.Value}, nil
	})
}

func (r *Relay) OnGetContactsStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetContactsStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.ContactsStarted{Provider: provider, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnGetContactsFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetContactsFinished, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		contacts, err := msg.Profiles(wire.FieldContacts)
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.ContactsFinished{Provider: provider, Contacts: contacts, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnGetContactsFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetContactsFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		return events.ContactsFailed{Provider: provider, Message: text, Payload: payload.Value}, nil
	})
}

func (r *Relay) OnGetFeedStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetFeedStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		return events.FeedStarted{Provider: provider}, nil
	})
}

func (r *Relay) OnGetFeedFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetFeedFinished, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		feed, err := msg.Strings(wire.FieldFeeds)
		if err != nil {
			return nil, err
		}
		return events.FeedFinished{Provider: provider, Feed: feed}, nil
	})
}

func (r *Relay) OnGetFeedFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodGetFeedFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		return events.FeedFailed{Provider: provider, Message: text}, nil
	})
}

func (r *Relay) OnAddAppRequestStarted(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodAddAppRequestStarted, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		return events.AddAppRequestStarted{Provider: provider}, nil
	})
}

func (r *Relay) OnAddAppRequestFinished(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodAddAppRequestFinished, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		return events.AddAppRequestFinished{Provider: provider, Message: text}, nil
	})
}

func (r *Relay) OnAddAppRequestFailed(ctx context.Context, message string) error {
	return r.relay(ctx, wire.MethodAddAppRequestFailed, message, func(_ context.Context, msg wire.Message) (events.Event, error) {
		provider, err := msg.Provider()
		if err != nil {
			return nil, err
		}
		text, err := msg.String(wire.FieldMessage)
		if err != nil {
			return nil, err
		}
		return events.AddAppRequestFailed{Provider: provider, Message: text}, nil
	})
}

type socialAction struct {
	provider domain.Provider
	action   domain.SocialActionType
	payload  domain.Payload
}

func decodeSocialAction(msg wire.Message) (socialAction, error) {
	provider, err := msg.Provider()
	if err != nil {
		return socialAction{}, err
	}
	action, err := msg.SocialActionType()
	if err != nil {
		return socialAction{}, err
	}
	payload, err := msg.Payload()
	if err != nil {
		return socialAction{}, err
	}
	return socialAction{provider: provider, action: action, payload: payload}, nil
}

func profileFields(p domain.UserProfile) []logger.Field {
	summary := redact.Profile(p)
	fields := make([]logger.Field, 0, len(summary))
	for _, key := range []string{"provider", "profile_id", "email", "username"} {
		if v, ok := summary[key]; ok {
			fields = append(fields, logger.Field{Key: key, Value: v})
		}
	}
	return fields
}
