package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// StringList stores []string as JSON.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(s))
}

func (s *StringList) Scan(value any) error {
	if s == nil {
		return errors.New("StringList: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("StringList: unsupported type %T", value)
	}
}

// RewardDefinition describes an in-game incentive that can be referenced
// from a payload.
type RewardDefinition struct {
	bun.BaseModel `bun:"table:profile_reward_definitions"`
	RecordMeta

	Code        string  `bun:",unique,nullzero,notnull" json:"code"`
	Name        string  `bun:",nullzero,notnull" json:"name"`
	Description string  `bun:",nullzero" json:"description"`
	Repeatable  bool    `bun:",notnull,default:false" json:"repeatable"`
	Metadata    JSONMap `bun:"type:jsonb,nullzero" json:"metadata,omitempty"`
}

// RewardGrant records a single time a reward was given.
type RewardGrant struct {
	bun.BaseModel `bun:"table:profile_reward_grants"`
	RecordMeta

	RewardCode string  `bun:",nullzero,notnull" json:"reward_code"`
	EventName  string  `bun:",nullzero" json:"event_name"`
	Provider   string  `bun:",nullzero" json:"provider"`
	Payload    string  `bun:",nullzero" json:"payload"`
	Metadata   JSONMap `bun:"type:jsonb,nullzero" json:"metadata,omitempty"`
}

// JournalEntry records an inbound native notification and its outcome.
type JournalEntry struct {
	bun.BaseModel `bun:"table:profile_notification_journal"`
	RecordMeta

	Method    string `bun:",nullzero,notnull" json:"method"`
	EventName string `bun:",nullzero" json:"event_name"`
	Provider  string `bun:",nullzero" json:"provider"`
	Status    string `bun:",nullzero,notnull" json:"status"`
	Error     string `bun:",nullzero" json:"error,omitempty"`
	Message   string `bun:",nullzero" json:"message"`
}

// Domain constants for statuses.
const (
	JournalStatusDispatched = "dispatched"
	JournalStatusRejected   = "rejected"
)
