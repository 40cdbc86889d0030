package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/techmine/techmine/internal/auth/jwt"
	"github.com/techmine/techmine/internal/client"
	"golang.org/x/oauth2"
	"golang.org/x/term"
)

// headerTransport adds fixed headers, such as an identity provider api key
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the identity provider and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}
			cred, err := a.fetchToken(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			a.session.SignIn(a.cfg.Server, *cred)
			if err := a.session.Refresh(cmd.Context(), a.client()); err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			if err := a.session.Save(); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in to %s (%s)\n", a.cfg.Server, a.session.State)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// fetchToken runs the resource owner password grant
func (a *app) fetchToken(ctx context.Context, email, password string) (*client.Credential, error) {
	idp := a.cfg.Identity
	if idp.TokenURL == "" {
		return nil, errors.New("identity.token_url is not configured")
	}
	conf := &oauth2.Config{
		ClientID:     idp.ClientID,
		ClientSecret: idp.ClientSecret,
		Scopes:       idp.Scopes,
		Endpoint:     oauth2.Endpoint{TokenURL: idp.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	hc := &http.Client{
		Timeout:   a.cfg.Timeout,
		Transport: &headerTransport{headers: idp.Headers, base: http.DefaultTransport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)

	tok, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	expiry := tok.Expiry
	if expiry.IsZero() {
		if d := jwt.ExpiresIn(tok.AccessToken, time.Now()); d > 0 {
			expiry = time.Now().Add(d)
		}
	}
	return &client.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       expiry.UTC(),
	}, nil
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user, role and profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !offline && a.session.State != client.StateSignedOut {
				if err := a.session.Refresh(cmd.Context(), a.client()); err != nil {
					return err
				}
				if err := a.session.Save(); err != nil {
					return err
				}
			}
			s := a.session
			return a.render(cmd.OutOrStdout(), map[string]any{
				"server":  s.Server,
				"state":   s.State,
				"role":    s.Role,
				"admin":   s.IsAdmin(),
				"expiry":  s.Credential.Expiry,
				"profile": s.Profile,
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "print the stored session without contacting the server")
	return cmd
}
