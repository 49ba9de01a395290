package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ahleite/plannito-bot/internal/model"
)

// sessionTTL bounds how long a cached login (token + categories) is
// reused before logging in again.
const sessionTTL = 5 * time.Minute

// Session is the slice of the login response the bot cares about.
type Session struct {
	Token      string
	User       User
	Categories []model.Category
}

type User struct {
	ID    string `json:"idSync"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token      string           `json:"token"`
	User       User             `json:"user"`
	Categories []model.Category `json:"categories"`
	Role       struct {
		Code string `json:"code"`
	} `json:"role"`
}

type accountsResponse struct {
	Data []model.BankAccount `json:"data"`
}

// Client talks to the Planno API: one service account logs in on
// behalf of the bot, and the token is cached until it expires or the
// API answers 401.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client

	mu        sync.Mutex
	session   *Session
	fetchedAt time.Time
}

func NewClient(baseURL, email, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		email:    email,
		password: password,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Login authenticates and returns the session, bypassing the cache.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "login request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("login failed with status %d", resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse login response")
	}

	session := &Session{
		Token:      parsed.Token,
		User:       parsed.User,
		Categories: parsed.Categories,
	}

	c.mu.Lock()
	c.session = session
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return session, nil
}

// Session returns the cached login, refreshing it when stale.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	cached := c.session
	age := time.Since(c.fetchedAt)
	c.mu.Unlock()

	if cached != nil && age < sessionTTL {
		return cached, nil
	}
	return c.Login(ctx)
}

// ListAccounts fetches the user's bank accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]model.BankAccount, error) {
	var parsed accountsResponse
	if err := c.authedJSON(ctx, http.MethodGet, "/account/search", nil, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}
	return parsed.Data, nil
}

// RecordTransaction persists a confirmed draft.
func (c *Client) RecordTransaction(ctx context.Context, draft *model.Draft) error {
	payload := map[string]interface{}{
		"id":        draft.ID,
		"value":     draft.Amount.String(),
		"category":  draft.Category,
		"type":      string(draft.Kind),
		"accountId": draft.AccountID,
	}
	if err := c.authedJSON(ctx, http.MethodPost, "/transaction", payload, nil); err != nil {
		return errors.Wrap(err, "failed to record transaction")
	}
	return nil
}

// authedJSON performs a bearer-authenticated request, logging in again
// once if the API answers 401.
func (c *Client) authedJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	session, err := c.Session(ctx)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, method, path, body, session.Token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		session, err = c.Login(ctx)
		if err != nil {
			return err
		}
		resp, err = c.do(ctx, method, path, body, session.Token)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "failed to parse response")
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.http.Do(req)
}
