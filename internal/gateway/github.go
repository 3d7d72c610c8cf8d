// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

const (
	// APIREST selects the REST users endpoint.
	APIREST = "rest"
	// APIGraphQL selects the GraphQL user query. It needs a token.
	APIGraphQL = "graphql"
)

// Lookuper resolves a username to its public profile.
// A zero entry (empty Login) with a nil error means no account matched.
type Lookuper interface {
	LookupUser(ctx context.Context, username string) (domain.FavoriteEntry, error)
}

// Options configures NewGitHubGateway.
type Options struct {
	Token      string
	BaseURL    string // REST base URL for GitHub Enterprise; empty means api.github.com
	GraphQLURL string // GraphQL endpoint for GitHub Enterprise
	API        string // APIREST or APIGraphQL
}

// GitHubGateway is the concrete implementation of the Lookuper interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	useGraphQL    bool
	attempts      uint
	retryDelay    time.Duration
	logger        *log.Logger
}

// userQuery fetches the profile fields the favorites table shows.
type userQuery struct {
	User *struct {
		Login        string
		Name         string
		AvatarURL    string `graphql:"avatarUrl"`
		URL          string
		Repositories struct {
			TotalCount int
		} `graphql:"repositories(privacy: PUBLIC, ownerAffiliations: [OWNER])"`
		Followers struct {
			TotalCount int
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (Lookuper, error) {
	if opts.API == APIGraphQL && opts.Token == "" {
		return nil, errors.New("the GraphQL API requires GITHUB_TOKEN")
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	// Public profiles need no token; one only raises the rate limit.
	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub API URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		useGraphQL:    opts.API == APIGraphQL,
		attempts:      3,
		retryDelay:    500 * time.Millisecond,
		logger:        logger,
	}, nil
}

// LookupUser fetches the profile of username.
func (g *GitHubGateway) LookupUser(ctx context.Context, username string) (domain.FavoriteEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.FavoriteEntry{}, nil
	}
	if g.useGraphQL {
		return g.lookupGraphQL(ctx, username)
	}
	return g.lookupREST(ctx, username)
}

func (g *GitHubGateway) lookupREST(ctx context.Context, username string) (domain.FavoriteEntry, error) {
	g.logger.Printf("Fetching user %s using REST API...", username)
	req, err := g.restClient.NewRequest(http.MethodGet, "users/"+url.PathEscape(username), nil)
	if err != nil {
		return domain.FavoriteEntry{}, fmt.Errorf("failed to build REST request: %w", err)
	}

	var entry domain.FavoriteEntry
	err = g.withRetry(ctx, func() error {
		entry = domain.FavoriteEntry{}
		resp, err := g.restClient.Do(ctx, req, &entry)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			entry = domain.FavoriteEntry{}
			return nil
		}
		return err
	})
	if err != nil {
		return domain.FavoriteEntry{}, fmt.Errorf("failed to fetch user with REST API: %w", err)
	}
	if entry.Login == "" {
		g.logger.Printf("User %s not found.", username)
	}
	return entry, nil
}

func (g *GitHubGateway) lookupGraphQL(ctx context.Context, username string) (domain.FavoriteEntry, error) {
	g.logger.Printf("Fetching user %s using GraphQL API...", username)
	variables := map[string]interface{}{"login": githubv4.String(username)}

	var q userQuery
	err := g.withRetry(ctx, func() error {
		q = userQuery{}
		err := g.graphqlClient.Query(ctx, &q, variables)
		if err == nil {
			return nil
		}
		if strings.Contains(err.Error(), "Could not resolve to a User") {
			q = userQuery{}
			return nil
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) || strings.HasPrefix(err.Error(), "non-200 OK status code: 5") {
			return err
		}
		// Query-level errors will not change on a retry.
		return retry.Unrecoverable(err)
	})
	if err != nil {
		return domain.FavoriteEntry{}, fmt.Errorf("failed to execute GraphQL query for user: %w", err)
	}
	if q.User == nil || q.User.Login == "" {
		g.logger.Printf("User %s not found.", username)
		return domain.FavoriteEntry{}, nil
	}

	entry := domain.FavoriteEntry{
		Login:       q.User.Login,
		Name:        q.User.Name,
		PublicRepos: q.User.Repositories.TotalCount,
		Followers:   q.User.Followers.TotalCount,
	}
	entry.Extra, err = rawFields(map[string]string{
		"avatar_url": q.User.AvatarURL,
		"html_url":   q.User.URL,
	})
	if err != nil {
		return domain.FavoriteEntry{}, err
	}
	return entry, nil
}

// withRetry runs op until it succeeds, fails permanently or runs out of attempts.
func (g *GitHubGateway) withRetry(ctx context.Context, op func() error) error {
	return retry.Do(op,
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Printf("  Attempt %d failed, retrying: %v", n+1, err)
		}),
	)
}

// isTransient reports whether a failed call is worth repeating.
// Client errors and rate limits are not; the rate limit waiter already
// sleeps through secondary limits.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return false
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Response != nil && errResp.Response.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// rawFields encodes string fields for FavoriteEntry.Extra.
func rawFields(fields map[string]string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}
