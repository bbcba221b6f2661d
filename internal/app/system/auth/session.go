package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
	userRole  = "user_role"
)

// SessionManager resolves callers from a signed session cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
}

// NewSessionManager builds a cookie store from the provided session key and
// domain. The `secure` flag controls whether cookies are marked Secure and
// which SameSite mode is used.
//
// In production (secure=true), cookies should be Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name}, nil
}

// Resolve returns the caller recorded in the session cookie.
func (sm *SessionManager) Resolve(r *http.Request) (*Caller, bool) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return nil, false
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil, false
	}
	return &Caller{
		ID:     getString(sess, userIDKey),
		Name:   getString(sess, userName),
		Email:  getString(sess, userEmail),
		Role:   getString(sess, userRole),
		Source: "session",
	}, true
}

// SignIn writes c into the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, c Caller) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = c.ID
	sess.Values[userName] = c.Name
	sess.Values[userEmail] = c.Email
	sess.Values[userRole] = c.Role
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
