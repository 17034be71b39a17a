package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/common"
)

const (
	defaultSessionTTL = 24 * time.Hour
	userinfoEndpoint  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Service couples the Google OAuth flow with signed session tokens.
type Service struct {
	users      account.Querier
	oauth      *oauth2.Config
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
	signer     jwa.SignatureAlgorithm
	issuer     string
}

// Config configures the auth service.
type Config struct {
	Users        account.Querier
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Secret       string
	SessionTTL   time.Duration
	Issuer       string
}

// NewService constructs the auth service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil {
		return nil, errors.New("auth: users querier is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth: session secret is required")
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "backend-quote"
	}
	return &Service{
		users: cfg.Users,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		secret:     []byte(cfg.Secret),
		sessionTTL: ttl,
		now:        time.Now,
		signer:     jwa.HS256,
		issuer:     issuer,
	}, nil
}

// AuthURL returns the Google consent URL bound to the given state.
func (s *Service) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// NewState produces an unguessable state value for the OAuth round trip.
func NewState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// HandleCallback exchanges the authorization code, fetches the Google profile,
// and upserts the user keyed by their Google identifier.
func (s *Service) HandleCallback(ctx context.Context, code string) (account.User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return account.User{}, common.NewAppError("UNAUTHORIZED", "oauth exchange failed", http.StatusUnauthorized, err)
	}
	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return account.User{}, err
	}
	if profile.ID == "" {
		return account.User{}, common.NewAppError("UNAUTHORIZED", "google profile missing id", http.StatusUnauthorized, nil)
	}
	return s.users.UpsertUserByGoogleID(ctx, account.User{
		GoogleID:    profile.ID,
		DisplayName: profile.Name,
		Email:       profile.Email,
		Image:       profile.Picture,
	})
}

func (s *Service) fetchProfile(ctx context.Context, token *oauth2.Token) (googleProfile, error) {
	client := s.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return googleProfile{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleProfile{}, fmt.Errorf("fetch google profile: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return googleProfile{}, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return googleProfile{}, err
	}
	var profile googleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return googleProfile{}, fmt.Errorf("decode google profile: %w", err)
	}
	return profile, nil
}

// SignSession issues a signed session token for the user.
func (s *Service) SignSession(userID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	token, err := jwt.NewBuilder().
		Subject(userID).
		Issuer(s.issuer).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

// ParseSession validates a session token and returns the subject (user ID).
func (s *Service) ParseSession(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	parsed, err := jwt.ParseString(trimmed,
		jwt.WithKey(s.signer, s.secret),
		jwt.WithIssuer(s.issuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}
