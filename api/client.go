// Package api is a typed client for the student records API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/students"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// API paths
const (
	PathLogin         = "/user/login"
	PathRegister      = "/user/register"
	PathStudents      = "/student/all"
	PathStudentMe     = "/student/me"
	PathStudentCount  = "/student/count"
	PathStudent       = "/student/"
	PathStudentNew    = "/student/new"
	PathStudentUpdate = "/student/update/"
	PathStudentDelete = "/student/delete/"
)

// Error is a non-2xx answer from the API. Message carries the API's own
// explanation when it sent one.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps the status onto the package sentinels (ErrUnauthorized, ErrNotFound, ...).
func (e *Error) Unwrap() error {
	return e.kind
}

// Client talks to the records API. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient replaces the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// As returns a view of the client that sends token as the bearer credential.
func (c *Client) As(token string) *Authorized {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Authorized{
		client: c,
		http: &http.Client{
			Timeout:   c.http.Timeout,
			Transport: &oauth2.Transport{Source: src, Base: c.http.Transport},
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges an email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, c.http, http.MethodPost, PathLogin, loginRequest{Email: email, Password: password}, &resp)
	if errors.Is(err, errors.ErrUnauthorized) || errors.Is(err, errors.ErrNotFound) {
		return "", withKind(err, errors.ErrInvalidCredentials)
	}
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token: %w", errors.ErrUnexpectedStatus)
	}
	return resp.Token, nil
}

// Register creates an account. The API may or may not log the new user in;
// the returned token is empty when it does not.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, c.http, http.MethodPost, PathRegister, registerRequest{Name: name, Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Authorized is a client bound to one credential.
type Authorized struct {
	client *Client
	http   *http.Client
}

func (a *Authorized) ListStudents(ctx context.Context) ([]students.Student, error) {
	var list []students.Student
	if err := a.client.do(ctx, a.http, http.MethodGet, PathStudents, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *Authorized) GetStudent(ctx context.Context, id string) (students.Student, error) {
	var s students.Student
	err := a.client.do(ctx, a.http, http.MethodGet, PathStudent+escape(id), nil, &s)
	return s, err
}

// Me returns the profile of the logged-in student.
func (a *Authorized) Me(ctx context.Context) (students.Student, error) {
	var s students.Student
	err := a.client.do(ctx, a.http, http.MethodGet, PathStudentMe, nil, &s)
	return s, err
}

// Count returns the number of registered students.
func (a *Authorized) Count(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := a.client.do(ctx, a.http, http.MethodGet, PathStudentCount, nil, &raw); err != nil {
		return 0, err
	}
	return decodeCount(raw)
}

// CreateStudent adds a student and returns the login the API generated for them.
func (a *Authorized) CreateStudent(ctx context.Context, s students.Student) (students.Created, error) {
	var created students.Created
	err := a.client.do(ctx, a.http, http.MethodPost, PathStudentNew, s, &created)
	return created, err
}

func (a *Authorized) UpdateStudent(ctx context.Context, id string, s students.Student) error {
	return a.client.do(ctx, a.http, http.MethodPut, PathStudentUpdate+escape(id), s, nil)
}

func (a *Authorized) DeleteStudent(ctx context.Context, id string) error {
	return a.client.do(ctx, a.http, http.MethodDelete, PathStudentDelete+escape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

func statusError(status int, body []byte) error {
	e := &Error{Status: status, kind: errors.ErrUnexpectedStatus}
	switch status {
	case http.StatusUnauthorized:
		e.kind = errors.ErrUnauthorized
	case http.StatusForbidden:
		e.kind = errors.ErrForbidden
	case http.StatusNotFound:
		e.kind = errors.ErrNotFound
	}

	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &msg) == nil {
		e.Message = msg.Message
		if e.Message == "" {
			e.Message = msg.Error
		}
	}
	return e
}

// withKind keeps the API's message while changing the sentinel it matches.
func withKind(err error, kind error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return &Error{Status: apiErr.Status, Message: apiErr.Message, kind: kind}
	}
	return errors.Wrapf(kind, "%v", err)
}

// Message returns the text to show a user for err: the API's own message
// when it sent one, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// decodeCount accepts a bare number or an object such as {"count": 12}.
func decodeCount(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var obj map[string]int
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, errors.Wrapf(err, "decode student count")
	}
	for _, key := range []string{"count", "total", "students"} {
		if v, ok := obj[key]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("student count missing from %s: %w", raw, errors.ErrUnexpectedStatus)
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
