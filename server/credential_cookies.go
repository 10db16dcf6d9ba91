package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/jrsteele09/studentdesk/session/redisstore"
)

// sessionIDCookie names the browser session id used with the Redis backend.
const sessionIDCookie = "sid"

// credentialStore returns the credential store of the browser making r.
func (s *Server) credentialStore(w http.ResponseWriter, r *http.Request) session.Store {
	jar := cookieJar{
		w:      w,
		r:      r,
		secure: s.config.GetCookieSecure() || getScheme(r) == "https",
		maxAge: s.config.GetSessionMaxAge(),
	}
	if s.credentials == nil {
		return &cookieStore{jar: jar, name: s.config.GetSessionCookieName()}
	}
	return &browserSession{jar: jar, credentials: s.credentials}
}

// cookieJar reads request cookies and remembers what this response set,
// so a later read in the same request sees the new value.
type cookieJar struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	maxAge  time.Duration
	written map[string]string
}

func (j *cookieJar) get(name string) string {
	if v, ok := j.written[name]; ok {
		return v
	}
	cookie, err := j.r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *cookieJar) set(name, value string) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(j.maxAge.Seconds()),
	}
	if value == "" {
		cookie.MaxAge = -1 // Delete cookie
	}

	// The last write within a request wins, e.g. a login that is undone
	// because the credential could not be decoded.
	header := j.w.Header()
	var kept []string
	for _, line := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(line, name+"=") {
			kept = append(kept, line)
		}
	}
	header.Del("Set-Cookie")
	for _, line := range kept {
		header.Add("Set-Cookie", line)
	}
	http.SetCookie(j.w, cookie)

	if j.written == nil {
		j.written = map[string]string{}
	}
	j.written[name] = value
}

// cookieStore keeps the raw credential in an HttpOnly cookie.
type cookieStore struct {
	jar  cookieJar
	name string
}

var _ session.Store = (*cookieStore)(nil)

func (c *cookieStore) Load(context.Context) (string, error) {
	token := c.jar.get(c.name)
	if token == "" {
		return "", errors.ErrNoCredential
	}
	return token, nil
}

func (c *cookieStore) Save(_ context.Context, token string) error {
	c.jar.set(c.name, token)
	return nil
}

func (c *cookieStore) Clear(context.Context) error {
	c.jar.set(c.name, "")
	return nil
}

// browserSession keeps the credential in Redis under an opaque session id.
// The id is only issued when a credential is first saved.
type browserSession struct {
	jar         cookieJar
	credentials *redisstore.Store
}

var _ session.Store = (*browserSession)(nil)

func (b *browserSession) Load(ctx context.Context) (string, error) {
	sid := b.jar.get(sessionIDCookie)
	if sid == "" {
		return "", errors.ErrNoCredential
	}
	return b.credentials.For(sid).Load(ctx)
}

func (b *browserSession) Save(ctx context.Context, token string) error {
	sid := b.jar.get(sessionIDCookie)
	if sid == "" {
		sid = uuid.NewString()
		b.jar.set(sessionIDCookie, sid)
	}
	return b.credentials.For(sid).Save(ctx, token)
}

func (b *browserSession) Clear(ctx context.Context) error {
	sid := b.jar.get(sessionIDCookie)
	if sid == "" {
		return nil
	}
	b.jar.set(sessionIDCookie, "")
	return b.credentials.For(sid).Clear(ctx)
}
