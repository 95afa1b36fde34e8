package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Profile is the subset of the institute identity provider's user record the
// service consumes.
type Profile struct {
	Email          string
	FullName       string
	DisplayPicture string
	Department     string
	Batch          *int
}

// Client talks to the institute OAuth provider. One configured endpoint per
// operation; an unexpected response fails fast instead of probing fallbacks.
type Client interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (Profile, error)
}

// Config carries the provider endpoints and app credentials.
type Config struct {
	AuthorizationURL string
	TokenURL         string
	UserInfoURL      string
	ClientID         string
	ClientSecret     string
	RedirectURI      string
}

// HTTPClient implements Client over the provider's HTTP API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs an HTTPClient.
func NewClient(cfg Config) *HTTPClient {
	return &HTTPClient{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

// AuthorizeURL builds the URL the frontend redirects the user to.
func (c *HTTPClient) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	return c.cfg.AuthorizationURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userInfoResponse mirrors the provider's nested payload.
type userInfoResponse struct {
	Person struct {
		FullName       string `json:"fullName"`
		DisplayPicture string `json:"displayPicture"`
	} `json:"person"`
	ContactInformation struct {
		InstituteWebmailAddress string `json:"instituteWebmailAddress"`
	} `json:"contactInformation"`
	Student struct {
		Branch struct {
			Name string `json:"name"`
		} `json:"branch"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"student"`
}

// ExchangeCode trades an authorization code for the user's profile.
func (c *HTTPClient) ExchangeCode(ctx context.Context, code string) (Profile, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("token exchange: provider returned %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Profile{}, fmt.Errorf("token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return Profile{}, errors.New("token exchange: empty access token")
	}

	return c.fetchProfile(ctx, token.AccessToken)
}

func (c *HTTPClient) fetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("fetch user info: provider returned %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Profile{}, fmt.Errorf("fetch user info: %w", err)
	}
	if info.ContactInformation.InstituteWebmailAddress == "" {
		return Profile{}, errors.New("fetch user info: email not present")
	}

	return Profile{
		Email:          info.ContactInformation.InstituteWebmailAddress,
		FullName:       info.Person.FullName,
		DisplayPicture: info.Person.DisplayPicture,
		Department:     info.Student.Branch.Name,
		Batch:          batchFromDates(info.Student.StartDate, info.Student.EndDate),
	}, nil
}

// batchFromDates derives the graduating batch year: the end date's year when
// known, otherwise start year plus the four-year program length.
func batchFromDates(startDate, endDate string) *int {
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			year := t.Year()
			return &year
		}
	}
	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			year := t.Year() + 4
			return &year
		}
	}
	return nil
}
