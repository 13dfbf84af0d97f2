package models

import (
	"time"

	"github.com/pkg/errors"
)

// Kind is the sentiment of a feedback message
type Kind int

const (
	Unhappy Kind = -1
	Happy   Kind = 1
)

// TimeFormat is how publication dates appear in exports and pages
const TimeFormat = "2006-01-02T15:04:05Z"

// ErrInvalidKind is returned when constructing feedback of an unknown kind
var ErrInvalidKind = errors.New("invalid feedback kind")

// kinds maps the form and URL keys to sentiments
var kinds = map[string]Kind{
	"unhappy": Unhappy,
	"happy":   Happy,
}

// ParseKind maps a form or URL key to its sentiment
func ParseKind(key string) (Kind, bool) {
	k, ok := kinds[key]
	return k, ok
}

// Valid reports whether k may be persisted
func (k Kind) Valid() bool {
	return k == Happy || k == Unhappy
}

// Key is the inverse of ParseKind
func (k Kind) Key() string {
	switch k {
	case Happy:
		return "happy"
	case Unhappy:
		return "unhappy"
	}
	return ""
}

// Symbol renders the sentiment as used in exports
func (k Kind) Symbol() string {
	switch k {
	case Happy:
		return "+"
	case Unhappy:
		return "-"
	}
	return "?"
}

// Feedback is a single submitted message. Rows are never updated.
type Feedback struct {
	ID      uint      `gorm:"column:feedback_id;primaryKey;autoIncrement" json:"id"`
	Kind    Kind      `gorm:"not null;index" json:"kind"`
	Text    string    `gorm:"size:1000" json:"text"`
	Version string    `gorm:"size:40;index" json:"version"`
	PubDate time.Time `gorm:"not null;index" json:"pub_date"`
}

// TableName returns the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}

// NewFeedback builds a message published at now, truncated to the second
func NewFeedback(kind Kind, text, version string, now time.Time) (*Feedback, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrInvalidKind, "kind %d", kind)
	}
	return &Feedback{
		Kind:    kind,
		Text:    text,
		Version: version,
		PubDate: now.UTC().Truncate(time.Second),
	}, nil
}

// Symbol renders the message's sentiment
func (f *Feedback) Symbol() string {
	return f.Kind.Symbol()
}

// PubDateString formats the publication date in UTC
func (f *Feedback) PubDateString() string {
	return f.PubDate.UTC().Format(TimeFormat)
}

// VersionLabel is the version, or "unknown" when none was given
func (f *Feedback) VersionLabel() string {
	if f.Version == "" {
		return "unknown"
	}
	return f.Version
}

// Message is the exported representation of a Feedback
type Message struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Version string `json:"version"`
	PubDate string `json:"pub_date"`
}

// ToMessage converts the record to its export form
func (f *Feedback) ToMessage() Message {
	return Message{
		Kind:    f.Symbol(),
		Text:    f.Text,
		Version: f.Version,
		PubDate: f.PubDateString(),
	}
}
