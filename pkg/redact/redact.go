// Package redact masks identifying profile data before it reaches logs,
// the journal, or outbound sinks.
package redact

import (
	"strings"

	masker "github.com/goliatone/go-masker"
	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Placeholder replaces documents removed by Document.
const Placeholder = "[redacted]"

const maskRule = "preserveEnds(2,2)"

var sensitiveFields = []string{
	"email", "profileId", "profile_id",
	"username", "birthday", "location",
	"access_token", "token", "secret",
}

func init() {
	for _, field := range sensitiveFields {
		masker.Default.RegisterMaskField(field, maskRule)
	}
}

// IsSensitive reports whether key names a field that is masked.
func IsSensitive(key string) bool {
	for _, field := range sensitiveFields {
		if strings.EqualFold(field, key) {
			return true
		}
	}
	return false
}

// String masks value keeping its first and last two characters.
func String(value string) string {
	if value == "" {
		return ""
	}
	if masked, err := masker.Default.String(maskRule, value); err == nil {
		return masked
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}

// Profile returns a log-safe summary of p.
func Profile(p domain.UserProfile) map[string]any {
	out := map[string]any{
		"provider":   p.Provider.String(),
		"profile_id": String(p.ProfileID),
	}
	if p.Email != "" {
		out["email"] = String(p.Email)
	}
	if p.Username != "" {
		out["username"] = String(p.Username)
	}
	return out
}

// Values returns a copy of values with sensitive string entries masked.
func Values(values map[string]any) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok && IsSensitive(k) {
			out[k] = String(s)
			continue
		}
		out[k] = v
	}
	return out
}

// Document replaces the listed top-level fields of a JSON object with
// Placeholder. Invalid documents are returned unchanged.
func Document(raw string, fields ...string) string {
	if !gjson.Valid(raw) {
		return raw
	}
	out := raw
	for _, field := range fields {
		if !gjson.Get(out, field).Exists() {
			continue
		}
		next, err := sjson.Set(out, field, Placeholder)
		if err != nil {
			continue
		}
		out = next
	}
	return out
}
