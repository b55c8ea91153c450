package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrExchange is returned when the authorization code cannot be redeemed.
var ErrExchange = errors.New("oauth exchange failed")

// User identifies the signed-in Google account.
type User struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Provider wraps the Google OAuth2 configuration.
type Provider struct {
	cfg *oauth2.Config
}

// NewProvider configures sign-in with spreadsheet access for the given
// client. redirectURL must match the one registered in the Google console.
func NewProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			oauth2api.OpenIDScope,
			oauth2api.UserinfoEmailScope,
			oauth2api.UserinfoProfileScope,
			sheets.SpreadsheetsScope,
		},
	}}
}

// AuthCodeURL returns the consent page URL. Offline access is requested so
// jobs can outlive the access token.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange redeems an authorization code.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	return tok, nil
}

// TokenSource returns a refreshing token source for tok.
func (p *Provider) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return p.cfg.TokenSource(ctx, tok)
}

// FetchUser looks up the account owning tok.
func (p *Provider) FetchUser(ctx context.Context, tok *oauth2.Token) (User, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(p.TokenSource(ctx, tok)))
	if err != nil {
		return User{}, fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return User{}, fmt.Errorf("get userinfo: %w", err)
	}
	return User{Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}
