package server_test

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/internal/config"
	"github.com/jrsteele09/studentdesk/server"
	"github.com/jrsteele09/studentdesk/session/redisstore"
	"github.com/jrsteele09/studentdesk/session/sessiontest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	adminToken   = sessiontest.Admin(testNow.Add(time.Hour))
	studentToken = sessiontest.Student(testNow.Add(time.Hour))
	expiredToken = sessiontest.Admin(testNow.Add(-time.Second))
)

// fakeAPI stands in for the records API. It accepts adminToken and studentToken.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authorized := func(r *http.Request) bool {
		auth := r.Header.Get("Authorization")
		return auth == "Bearer "+adminToken || auth == "Bearer "+studentToken
	}

	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["email"] {
		case "admin@example.edu":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": adminToken})
		case "broken@example.edu":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "not-a-jwt"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid password"}`))
		}
	})
	mux.HandleFunc("POST /user/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		if body["email"] == "auto@example.edu" {
			_ = json.NewEncoder(w).Encode(map[string]string{"token": studentToken})
		}
	})
	mux.HandleFunc("GET /student/count", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`7`))
	})
	mux.HandleFunc("GET /student/all", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"_id":"s1","firstname":"Asha","lastname":"Rao","email":"asha@example.edu"}]`))
	})
	mux.HandleFunc("GET /student/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"s1","firstname":"Asha","lastname":"Rao","student_id":{"aadhar":123412341234,"pancard":"ABCDE1234F"}}`))
	})
	mux.HandleFunc("GET /student/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") != "s1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"No student with that id"}`))
			return
		}
		_, _ = w.Write([]byte(`{"_id":"s1","firstname":"Asha","lastname":"Rao","email":"asha@example.edu","city":"Pune"}`))
	})
	mux.HandleFunc("PUT /student/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.edu" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Email already in use"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"updated"}`))
	})
	mux.HandleFunc("DELETE /student/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") != "s1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"No student with that id"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /student/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"email":"meera@example.edu","password":"x7Yp2q"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, apiURL string, opts ...server.Option) *server.Server {
	t.Helper()
	t.Setenv("ENV", "TEST")
	c, err := config.Load("")
	require.NoError(t, err)

	opts = append([]server.Option{server.WithClock(func() time.Time { return testNow })}, opts...)
	s, err := server.New(c, api.New(apiURL, 2*time.Second), opts...)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func post(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func tokenCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "token", Value: token}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func requireLoginRedirect(t *testing.T, resp *http.Response) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?error="), resp.Header.Get("Location"))
}

func requireCleared(t *testing.T, resp *http.Response, name string) {
	t.Helper()
	c := findCookie(resp, name)
	require.NotNil(t, c, "expected %s cookie to be cleared", name)
	require.Less(t, c.MaxAge, 0)
}

func TestGuard(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("anonymous visitor is sent to login", func(t *testing.T) {
		resp := get(t, s, "/landing")
		requireLoginRedirect(t, resp)
		require.Equal(t, "/login?error=Login+required", resp.Header.Get("Location"))
	})

	t.Run("expired credential is cleared", func(t *testing.T) {
		resp := get(t, s, "/student/all", tokenCookie(expiredToken))
		requireLoginRedirect(t, resp)
		require.Contains(t, resp.Header.Get("Location"), "expired")
		requireCleared(t, resp, "token")
	})

	t.Run("malformed credential is cleared", func(t *testing.T) {
		resp := get(t, s, "/landing", tokenCookie("header.payload"))
		requireLoginRedirect(t, resp)
		requireCleared(t, resp, "token")
	})

	t.Run("future student credential is permitted", func(t *testing.T) {
		token := sessiontest.Token(map[string]any{"roles": "student", "exp": 9999999999})
		resp := get(t, s, "/landing", tokenCookie(token))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body(t, resp), "Welcome, Student!")
	})

	t.Run("far future credential is permitted", func(t *testing.T) {
		token := sessiontest.Token(map[string]any{"roles": "student", "exp": 1e19})
		resp := get(t, s, "/landing", tokenCookie(token))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body(t, resp), "Welcome, Student!")

		resp = get(t, s, "/api/session", tokenCookie(token))
		var info server.SessionInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		require.True(t, info.Authenticated)
		require.Equal(t, 9999, info.ExpiresAt.Year())
	})

	t.Run("exp of 1 is denied", func(t *testing.T) {
		token := sessiontest.Token(map[string]any{"roles": "admin", "exp": 1})
		resp := get(t, s, "/landing", tokenCookie(token))
		requireLoginRedirect(t, resp)
		requireCleared(t, resp, "token")
	})
}

func TestRoleGating(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)
	noRoleToken := sessiontest.Token(map[string]any{"roles": "registrar", "exp": 9999999999})

	tests := map[string]struct {
		path   string
		token  string
		status int
	}{
		"admin lists students":         {"/student/all", adminToken, http.StatusOK},
		"admin opens update list":      {"/student/update", adminToken, http.StatusOK},
		"admin opens delete list":      {"/student/delete", adminToken, http.StatusOK},
		"admin opens add form":         {"/student/new", adminToken, http.StatusOK},
		"admin cannot open profile":    {"/student/me", adminToken, http.StatusForbidden},
		"student opens profile":        {"/student/me", studentToken, http.StatusOK},
		"student opens id details":     {"/student/me/id-details", studentToken, http.StatusOK},
		"student cannot list":          {"/student/all", studentToken, http.StatusForbidden},
		"student cannot add":           {"/student/new", studentToken, http.StatusForbidden},
		"unknown profile section":      {"/student/me/grades", studentToken, http.StatusNotFound},
		"role none sees landing":       {"/landing", noRoleToken, http.StatusOK},
		"role none cannot list":        {"/student/all", noRoleToken, http.StatusForbidden},
		"role none cannot see profile": {"/student/me", noRoleToken, http.StatusForbidden},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := get(t, s, tc.path, tokenCookie(tc.token))
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestLanding(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("admin sees the student count", func(t *testing.T) {
		resp := get(t, s, "/landing", tokenCookie(adminToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := body(t, resp)
		require.Contains(t, page, "Welcome, Admin!")
		require.Contains(t, page, `<p class="count">7</p>`)
		require.Contains(t, page, `href="/student/delete"`)
		require.NotContains(t, page, `href="/student/me/scholarship"`)
	})

	t.Run("student sees the student sidebar", func(t *testing.T) {
		resp := get(t, s, "/landing", tokenCookie(studentToken))
		page := body(t, resp)
		require.Contains(t, page, "Welcome, Student!")
		require.Contains(t, page, `href="/student/me/scholarship"`)
		require.NotContains(t, page, `href="/student/delete"`)
	})
}

func TestAPIRejectionEndsSession(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	// Well formed and unexpired, but the API does not accept it.
	revoked := sessiontest.Admin(testNow.Add(2 * time.Hour))
	resp := get(t, s, "/student/all", tokenCookie(revoked))
	requireLoginRedirect(t, resp)
	requireCleared(t, resp, "token")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("success stores the credential", func(t *testing.T) {
		resp := post(t, s, "/login", url.Values{"email": {"admin@example.edu"}, "password": {"pw"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/landing", resp.Header.Get("Location"))

		c := findCookie(resp, "token")
		require.NotNil(t, c)
		require.Equal(t, adminToken, c.Value)
		require.True(t, c.HttpOnly)
		require.Greater(t, c.MaxAge, 0)
	})

	t.Run("rejected credentials show the api message", func(t *testing.T) {
		resp := post(t, s, "/login", url.Values{"email": {"nobody@example.edu"}, "password": {"pw"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login?error=Invalid+password&email=nobody%40example.edu", resp.Header.Get("Location"))
		require.Nil(t, findCookie(resp, "token"))
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := post(t, s, "/login", url.Values{"email": {"admin@example.edu"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Location"), "error=Email+and+password+are+required")
	})

	t.Run("malformed credential from the api is not kept", func(t *testing.T) {
		resp := post(t, s, "/login", url.Values{"email": {"broken@example.edu"}, "password": {"pw"}})
		requireLoginRedirect(t, resp)
		requireCleared(t, resp, "token")
	})

	t.Run("logged in visitor skips the login page", func(t *testing.T) {
		resp := get(t, s, "/login", tokenCookie(adminToken))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/landing", resp.Header.Get("Location"))
	})

	t.Run("login page shows the error", func(t *testing.T) {
		resp := get(t, s, "/login?error=Login+required")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body(t, resp), "Login required")
	})
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	for name, cookies := range map[string][]*http.Cookie{
		"admin":     {tokenCookie(adminToken)},
		"student":   {tokenCookie(studentToken)},
		"anonymous": nil,
	} {
		t.Run(name, func(t *testing.T) {
			resp := get(t, s, "/logout", cookies...)
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/login", resp.Header.Get("Location"))
			requireCleared(t, resp, "token")
		})
	}
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("api logs the user in", func(t *testing.T) {
		resp := post(t, s, "/register", url.Values{"name": {"Auto"}, "email": {"auto@example.edu"}, "password": {"secret1"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/landing", resp.Header.Get("Location"))
		require.Equal(t, studentToken, findCookie(resp, "token").Value)
	})

	t.Run("no token sends the user to login", func(t *testing.T) {
		resp := post(t, s, "/register", url.Values{"name": {"Manual"}, "email": {"manual@example.edu"}, "password": {"secret1"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?notice="))
		require.Nil(t, findCookie(resp, "token"))
	})

	t.Run("short password", func(t *testing.T) {
		resp := post(t, s, "/register", url.Values{"name": {"Manual"}, "email": {"manual@example.edu"}, "password": {"pw"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body(t, resp), "Password must be at least 6 characters")
	})
}

func TestStudentNew(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("invalid form is shown again", func(t *testing.T) {
		resp := post(t, s, "/student/new", url.Values{"firstname": {"Asha"}, "lastname": {"R4o"}}, tokenCookie(adminToken))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		page := body(t, resp)
		require.Contains(t, page, "Invalid format")
		require.Contains(t, page, `value="Asha"`)
	})

	t.Run("created student login is shown", func(t *testing.T) {
		resp := post(t, s, "/student/new", validStudentForm(), tokenCookie(adminToken))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		page := body(t, resp)
		require.Contains(t, page, "meera@example.edu")
		require.Contains(t, page, "x7Yp2q")
	})

	t.Run("direct visit to signup", func(t *testing.T) {
		resp := get(t, s, "/signup")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body(t, resp), "Invalid access.")
	})
}

// validStudentForm returns a complete add/update form for a student without a scholarship.
func validStudentForm() url.Values {
	return url.Values{
		"firstname": {"Meera"}, "lastname": {"Rao"}, "email": {"meera@example.edu"},
		"phone_number": {"9876543210"}, "gender": {"female"}, "address": {"12 MG Road"},
		"city": {"Bengaluru"}, "state": {"Karnataka"}, "pincode": {"560001"},
		"guardian_name": {"R. Rao"}, "guardian_contact": {"9876500000"},
		"emergency_contact_name": {"Asha Rao"}, "emergency_contact_number": {"9876511111"},
		"secondaryschool.board_name": {"cbse"}, "highschool.board_name": {"puc"},
		"scholarship.received": {"no-scholarship-received"},
	}
}

func TestStudentUpdate(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("form is filled with the student's details", func(t *testing.T) {
		resp := get(t, s, "/student/update/s1", tokenCookie(adminToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := body(t, resp)
		require.Contains(t, page, `action="/student/update/s1"`)
		require.Contains(t, page, `value="Asha"`)
		require.Contains(t, page, `value="asha@example.edu"`)
	})

	t.Run("unknown student", func(t *testing.T) {
		resp := get(t, s, "/student/update/nobody", tokenCookie(adminToken))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Contains(t, body(t, resp), "Student not found")
	})

	t.Run("valid update returns to the update list", func(t *testing.T) {
		resp := post(t, s, "/student/update/s1", validStudentForm(), tokenCookie(adminToken))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/student/update?notice=Student+details+updated+successfully", resp.Header.Get("Location"))
	})

	t.Run("invalid form is shown again", func(t *testing.T) {
		form := validStudentForm()
		form.Set("lastname", "R4o")
		resp := post(t, s, "/student/update/s1", form, tokenCookie(adminToken))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body(t, resp), "Invalid format")
	})

	t.Run("API error message is shown", func(t *testing.T) {
		form := validStudentForm()
		form.Set("email", "taken@example.edu")
		resp := post(t, s, "/student/update/s1", form, tokenCookie(adminToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body(t, resp), "Email already in use")
	})

	t.Run("students cannot update", func(t *testing.T) {
		resp := post(t, s, "/student/update/s1", validStudentForm(), tokenCookie(studentToken))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("API rejection ends the session", func(t *testing.T) {
		revoked := sessiontest.Admin(testNow.Add(2 * time.Hour))
		resp := post(t, s, "/student/update/s1", validStudentForm(), tokenCookie(revoked))
		requireLoginRedirect(t, resp)
		requireCleared(t, resp, "token")
	})
}

func TestStudentDelete(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("admin deletes a student", func(t *testing.T) {
		resp := post(t, s, "/student/delete/s1", nil, tokenCookie(adminToken))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/student/delete?notice=Student+deleted", resp.Header.Get("Location"))
	})

	t.Run("API error is passed back to the list", func(t *testing.T) {
		resp := post(t, s, "/student/delete/nobody", nil, tokenCookie(adminToken))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/student/delete?error=No+student+with+that+id", resp.Header.Get("Location"))
	})

	t.Run("students cannot delete", func(t *testing.T) {
		resp := post(t, s, "/student/delete/s1", nil, tokenCookie(studentToken))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestSessionInfo(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("admin", func(t *testing.T) {
		resp := get(t, s, "/api/session", tokenCookie(adminToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info server.SessionInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		require.True(t, info.Authenticated)
		require.Equal(t, "admin", info.Role)
		require.Equal(t, "admin-1", info.UserID)
		require.Equal(t, int64(3600), info.ExpiresIn)
	})

	t.Run("expired", func(t *testing.T) {
		resp := get(t, s, "/api/session", tokenCookie(expiredToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info server.SessionInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		require.False(t, info.Authenticated)
		require.Equal(t, "none", info.Role)
		requireCleared(t, resp, "token")
	})
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t.Setenv("SESSION_BACKEND", "redis")
	store := redisstore.New(client, "test:", 24*time.Hour)
	s := newTestServer(t, fakeAPI(t).URL, server.WithRedisCredentials(store))

	resp := post(t, s, "/login", url.Values{"email": {"admin@example.edu"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Nil(t, findCookie(resp, "token"), "raw credential must not reach the browser")

	sid := findCookie(resp, "sid")
	require.NotNil(t, sid)
	stored, err := mr.Get("test:" + sid.Value)
	require.NoError(t, err)
	require.Equal(t, adminToken, stored)

	resp = get(t, s, "/landing", &http.Cookie{Name: "sid", Value: sid.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Welcome, Admin!")

	resp = get(t, s, "/logout", &http.Cookie{Name: "sid", Value: sid.Value})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.False(t, mr.Exists("test:"+sid.Value))

	resp = get(t, s, "/landing", &http.Cookie{Name: "sid", Value: sid.Value})
	requireLoginRedirect(t, resp)

	resp = get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRedisBackendRequiresStore(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	c, err := config.Load("")
	require.NoError(t, err)

	_, err = server.New(c, api.New("http://localhost:5000", time.Second))
	require.Error(t, err)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, fakeAPI(t).URL)

	resp := get(t, s, "/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.Contains(t, resp.Header.Get("Cache-Control"), "max-age=300")

	resp = get(t, s, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMiddleware(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.edu")
	s := newTestServer(t, fakeAPI(t).URL)

	t.Run("gzip for text assets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/app.css", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		require.Empty(t, rec.Header().Get("Content-Length"))
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		css, err := io.ReadAll(zr)
		require.NoError(t, err)
		require.Contains(t, string(css), ":root")
	})

	t.Run("pages refuse foreign frames", func(t *testing.T) {
		resp := get(t, s, "/login")
		require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	})

	t.Run("www host is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.Host = "www.example.edu"
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMovedPermanently, rec.Code)
		require.Equal(t, "http://example.edu/login", rec.Header().Get("Location"))
	})

	preflight := func(origin string) *http.Response {
		req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec.Result()
	}

	t.Run("preflight from an allowed origin", func(t *testing.T) {
		resp := preflight("https://app.example.edu")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, "https://app.example.edu", resp.Header.Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	})

	t.Run("preflight from another origin", func(t *testing.T) {
		resp := preflight("https://evil.example.com")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
