package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	cookieName   = "feedback_session"
	sessionIDKey = "sid"
	cookieMaxAge = 30 * 24 * 60 * 60
)

// Manager identifies browser sessions through a signed cookie. Only a
// random id travels in the cookie; the challenge stays server side.
type Manager struct {
	store sessions.Store
}

// NewManager signs cookies with secret. secure restricts them to HTTPS.
func NewManager(secret []byte, secure bool) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// ID returns the session id of r, starting a new session (and setting its
// cookie on w) when r carries none or carries one that fails verification.
// It must run before anything is written to w.
func (m *Manager) ID(w http.ResponseWriter, r *http.Request) (string, error) {
	// a cookie that does not verify yields a fresh session and an error we can ignore
	sess, _ := m.store.Get(r, cookieName)
	if sess == nil {
		sess = sessions.NewSession(m.store, cookieName)
	}

	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", errors.Wrap(err, "saving session cookie")
	}
	return id, nil
}
