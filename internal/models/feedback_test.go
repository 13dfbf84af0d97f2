package models

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedback(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2011, 5, 3, 14, 7, 9, 987654321, loc)

	fb, err := NewFeedback(Happy, "Great tool!", "1.0", now)
	require.NoError(t, err)

	assert.Equal(t, Happy, fb.Kind)
	assert.Equal(t, "Great tool!", fb.Text)
	assert.Equal(t, "1.0", fb.Version)
	assert.Equal(t, time.UTC, fb.PubDate.Location())
	assert.Equal(t, time.Date(2011, 5, 3, 12, 7, 9, 0, time.UTC), fb.PubDate)
	assert.Zero(t, fb.ID)
}

func TestNewFeedbackRejectsUnknownKind(t *testing.T) {
	for _, kind := range []Kind{0, 2, -2} {
		fb, err := NewFeedback(kind, "text", "", time.Now())
		assert.Nil(t, fb)
		assert.True(t, errors.Is(err, ErrInvalidKind), "kind %d", kind)
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("happy")
	assert.True(t, ok)
	assert.Equal(t, Happy, k)

	k, ok = ParseKind("unhappy")
	assert.True(t, ok)
	assert.Equal(t, Unhappy, k)

	for _, key := range []string{"", "HAPPY", "neutral", "1"} {
		_, ok = ParseKind(key)
		assert.False(t, ok, key)
	}

	assert.Equal(t, "happy", Happy.Key())
	assert.Equal(t, "unhappy", Unhappy.Key())
	assert.Equal(t, "", Kind(0).Key())
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "+", (&Feedback{Kind: Happy}).Symbol())
	assert.Equal(t, "-", (&Feedback{Kind: Unhappy}).Symbol())
	assert.Equal(t, "?", (&Feedback{Kind: 7}).Symbol())
}

func TestToMessage(t *testing.T) {
	fb := &Feedback{
		Kind:    Unhappy,
		Text:    "crashes on start",
		PubDate: time.Date(2011, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	assert.Equal(t, Message{
		Kind:    "-",
		Text:    "crashes on start",
		Version: "",
		PubDate: "2011-01-02T03:04:05Z",
	}, fb.ToMessage())
	assert.Equal(t, "unknown", fb.VersionLabel())
}
