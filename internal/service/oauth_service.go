package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"foodieapi/internal/domain"
	"foodieapi/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUnknownProvider  = errors.New("unknown oauth provider")
	ErrProviderExchange = errors.New("oauth provider exchange failed")
)

// Profile is the subset of a third-party profile this API keeps.
type Profile struct {
	ID       string
	Username string
	Email    string
	Image    string
}

// Provider describes one third-party identity provider: where to trade the
// authorization code for an access token, where to fetch the profile, and
// how to read it.
type Provider struct {
	Name            string
	TokenURL        string
	ProfileURL      string
	ClientID        string
	ClientSecret    string
	SendRedirectURI bool
	// UserField is the bson field the provider's account id is stored
	// under ("githubId", "facebookId").
	UserField string
	// ParseProfile extracts a Profile from the provider's JSON response.
	ParseProfile func(raw map[string]any) Profile
}

// GithubProvider returns the GitHub provider definition.
func GithubProvider(clientID, clientSecret string) Provider {
	return Provider{
		Name:         "github",
		TokenURL:     "https://github.com/login/oauth/access_token",
		ProfileURL:   "https://api.github.com/user",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserField:    "githubId",
		ParseProfile: func(raw map[string]any) Profile {
			return Profile{
				ID:       jsonID(raw["id"]),
				Username: jsonString(raw["login"]),
				Email:    jsonString(raw["email"]),
				Image:    jsonString(raw["avatar_url"]),
			}
		},
	}
}

// FacebookProvider returns the Facebook provider definition.
func FacebookProvider(clientID, clientSecret string) Provider {
	return Provider{
		Name:            "facebook",
		TokenURL:        "https://graph.facebook.com/v2.10/oauth/access_token",
		ProfileURL:      "https://graph.facebook.com/v2.5/me?fields=id,email,name,picture",
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		SendRedirectURI: true,
		UserField:       "facebookId",
		ParseProfile: func(raw map[string]any) Profile {
			p := Profile{
				ID:       jsonID(raw["id"]),
				Username: jsonString(raw["name"]),
				Email:    jsonString(raw["email"]),
			}
			if picture, ok := raw["picture"].(map[string]any); ok {
				if data, ok := picture["data"].(map[string]any); ok {
					p.Image = jsonString(data["url"])
				}
			}
			return p
		},
	}
}

// OAuthService exchanges provider authorization codes for session tokens.
type OAuthService interface {
	Exchange(ctx context.Context, providerName, code, redirectURI string) (token string, user *domain.User, err error)
}

// oauthService implements OAuthService over a set of configured providers.
type oauthService struct {
	userRepo      repository.UserRepository
	providers     map[string]Provider
	httpClient    *http.Client
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewOAuthService creates an OAuth service. The provider calls have no
// explicit deadline of their own beyond the client timeout, matching the
// server's transport-level settings.
func NewOAuthService(userRepo repository.UserRepository, providers []Provider, jwtSecret string, jwtExpiration time.Duration) OAuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	return &oauthService{
		userRepo:      userRepo,
		providers:     byName,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Exchange trades the authorization code for an access token, fetches the
// third-party profile, finds or creates the matching local user, refreshes
// the stored provider id and profile fields, and mints a session token.
func (s *oauthService) Exchange(ctx context.Context, providerName, code, redirectURI string) (string, *domain.User, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", nil, ErrUnknownProvider
	}

	accessToken, err := s.fetchAccessToken(ctx, provider, code, redirectURI)
	if err != nil {
		return "", nil, err
	}

	profile, err := s.fetchProfile(ctx, provider, accessToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.findOrCreateUser(ctx, provider, profile)
	if err != nil {
		return "", nil, err
	}

	token, err := MintToken(user.ID.Hex(), s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

func (s *oauthService) fetchAccessToken(ctx context.Context, provider Provider, code, redirectURI string) (string, error) {
	query := url.Values{}
	query.Set("client_id", provider.ClientID)
	query.Set("client_secret", provider.ClientSecret)
	query.Set("code", code)
	if provider.SendRedirectURI {
		query.Set("redirect_uri", redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.TokenURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}
	req.Header.Set("Accept", "application/json")

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.doJSON(req, &payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrProviderExchange)
	}
	return payload.AccessToken, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, provider Provider, accessToken string) (Profile, error) {
	profileURL, err := url.Parse(provider.ProfileURL)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}
	query := profileURL.Query()
	query.Set("access_token", accessToken)
	profileURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL.String(), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "foodie-api")

	var raw map[string]any
	if err := s.doJSON(req, &raw); err != nil {
		return Profile{}, err
	}

	profile := provider.ParseProfile(raw)
	if profile.ID == "" {
		return Profile{}, fmt.Errorf("%w: profile has no id", ErrProviderExchange)
	}
	return profile, nil
}

func (s *oauthService) doJSON(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: upstream status %d", ErrProviderExchange, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}
	return nil
}

// findOrCreateUser matches an existing account by provider id or email, or
// creates one from the fresh profile. Either way the stored provider id,
// email, and image are refreshed from the profile.
func (s *oauthService) findOrCreateUser(ctx context.Context, provider Provider, profile Profile) (*domain.User, error) {
	user, err := s.userRepo.GetByProviderOrEmail(ctx, provider.UserField, profile.ID, profile.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	isNew := user == nil
	if isNew {
		user = &domain.User{
			Username: profile.Username,
			Email:    profile.Email,
			Image:    profile.Image,
		}
	}

	switch provider.UserField {
	case "githubId":
		user.GithubID = profile.ID
	case "facebookId":
		user.FacebookID = profile.ID
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.Image != "" {
		user.Image = profile.Image
	}

	if isNew {
		id, err := s.userRepo.Create(ctx, user)
		if err != nil {
			return nil, err
		}
		user.ID = id
		return user, nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func jsonString(v any) string {
	str, _ := v.(string)
	return str
}

// jsonID renders a provider account id as a string whether the provider
// sends it as a JSON number (GitHub) or a string (Facebook).
func jsonID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}
