package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotFound is returned when the username does not resolve to a user.
	ErrNotFound = errors.New("user not found")
	// ErrUpstream wraps any failed or malformed upstream response.
	ErrUpstream = errors.New("upstream error")
)

// Profile is the merged result of the three upstream lookups.
type Profile struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Created     string `json:"created"`
	AvatarURL   string `json:"avatarUrl"`
}

// Options configures the upstream endpoints.
type Options struct {
	UsersURL      string
	ThumbnailsURL string
	Timeout       time.Duration
	CacheTTL      time.Duration
	HTTPClient    *http.Client
}

// Client resolves usernames into profiles. Concurrent lookups of the same
// username share a single upstream round trip.
type Client struct {
	http          *http.Client
	usersURL      string
	thumbnailsURL string
	cache         Cache
	cacheTTL      time.Duration
	sf            singleflight.Group
	log           *zerolog.Logger
}

// NewClient builds a profile client. cache may be nil.
func NewClient(opts Options, cache Cache, logger *zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		http:          httpClient,
		usersURL:      strings.TrimRight(opts.UsersURL, "/"),
		thumbnailsURL: strings.TrimRight(opts.ThumbnailsURL, "/"),
		cache:         cache,
		cacheTTL:      opts.CacheTTL,
		log:           logger,
	}
}

// Lookup returns the profile for username.
func (c *Client) Lookup(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}
	key := strings.ToLower(username)

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn().Err(err).Str("username", username).Msg("profile cache get error")
		}
	}

	// The shared fetch outlives any single caller; the HTTP client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		return c.fetch(fetchCtx, username)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	p, ok := res.Val.(*Profile)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, p, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("username", username).Msg("profile cache set error")
		}
	}

	// Callers share the pointer returned by singleflight.
	out := *p
	return &out, nil
}

type usernamesRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type usernamesResponse struct {
	Data []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"data"`
}

type userResponse struct {
	Description string `json:"description"`
	Created     string `json:"created"`
}

type thumbnailsResponse struct {
	Data []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

func (c *Client) fetch(ctx context.Context, username string) (*Profile, error) {
	// 1. Resolve the id.
	body, err := json.Marshal(usernamesRequest{Usernames: []string{username}, ExcludeBannedUsers: true})
	if err != nil {
		return nil, fmt.Errorf("marshal usernames request: %w", err)
	}
	var users usernamesResponse
	if err := c.do(ctx, http.MethodPost, c.usersURL+"/v1/usernames/users", body, &users); err != nil {
		return nil, fmt.Errorf("resolve username: %w", err)
	}
	if len(users.Data) == 0 {
		return nil, ErrNotFound
	}
	user := users.Data[0]
	id := strconv.FormatInt(user.ID, 10)

	// 2. Profile details.
	var details userResponse
	if err := c.do(ctx, http.MethodGet, c.usersURL+"/v1/users/"+id, nil, &details); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	// 3. Avatar thumbnail.
	q := url.Values{}
	q.Set("userIds", id)
	q.Set("size", "420x420")
	q.Set("format", "Png")
	q.Set("isCircular", "false")
	var thumbs thumbnailsResponse
	if err := c.do(ctx, http.MethodGet, c.thumbnailsURL+"/v1/users/avatar?"+q.Encode(), nil, &thumbs); err != nil {
		return nil, fmt.Errorf("get avatar %s: %w", id, err)
	}
	var avatarURL string
	if len(thumbs.Data) > 0 {
		avatarURL = thumbs.Data[0].ImageURL
	}

	return &Profile{
		ID:          user.ID,
		Username:    user.Name,
		DisplayName: user.DisplayName,
		Description: details.Description,
		Created:     details.Created,
		AvatarURL:   avatarURL,
	}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, method, req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, req.URL.Path, err)
	}
	return nil
}
