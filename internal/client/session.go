package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/pkg/helper"
	"gopkg.in/yaml.v3"
)

type SessionState string

const (
	StateSignedOut SessionState = "signed-out"
	StateSignedIn  SessionState = "signed-in"
	// StateNoProfile means the token is valid but no profile row exists,
	// so no elevated role applies
	StateNoProfile SessionState = "no-profile"
)

// Credential is the token pair obtained from the identity provider
type Credential struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	TokenType    string    `yaml:"token_type,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// Valid reports whether the access token is present and not expired
func (c Credential) Valid(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	return c.Expiry.IsZero() || now.Before(c.Expiry)
}

// Session is the explicit signed-in state of techminectl
type Session struct {
	Server     string       `yaml:"server"`
	Credential Credential   `yaml:"credential"`
	Profile    *dto.Profile `yaml:"profile,omitempty"`
	Role       string       `yaml:"role,omitempty"`
	State      SessionState `yaml:"state"`

	path string
}

// SessionPath resolves where the session file lives
func SessionPath(configured string) string {
	if configured != "" {
		return configured
	}
	return helper.UserDataPath(cnst.SessionFile)
}

// LoadSession reads the session at path. A missing file is a signed-out
// session, not an error.
func LoadSession(path string) (*Session, error) {
	s := &Session{State: StateSignedOut, path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if s.State == "" {
		s.State = StateSignedOut
	}
	return s, nil
}

// Save writes the session readable by the owner only
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear signs out and removes the session file
func (s *Session) Clear() error {
	*s = Session{State: StateSignedOut, path: s.path}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SignIn stores a fresh credential; call Refresh afterwards to load the profile
func (s *Session) SignIn(server string, cred Credential) {
	s.Server = server
	s.Credential = cred
	s.Profile = nil
	s.Role = ""
	s.State = StateSignedIn
}

// Refresh reloads the caller's role and profile. A missing profile keeps the
// session usable but drops any elevated role.
func (s *Session) Refresh(ctx context.Context, c *Client) error {
	if s.Credential.AccessToken == "" {
		s.State = StateSignedOut
		return errors.New("not signed in")
	}

	id, err := c.AuthMe(ctx)
	if err != nil {
		return err
	}
	s.Role = id.Role

	p, err := c.ProfileMe(ctx)
	switch {
	case IsNotFound(err):
		s.Profile = nil
		s.Role = ""
		s.State = StateNoProfile
		return nil
	case err != nil:
		return err
	}
	s.Profile = p
	s.State = StateSignedIn
	return nil
}

func (s *Session) IsAdmin() bool {
	return s.State != StateSignedOut && strings.EqualFold(s.Role, cnst.RoleAdmin)
}
