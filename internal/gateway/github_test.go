package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler, useGraphQL bool) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		useGraphQL:    useGraphQL,
		attempts:      3,
		retryDelay:    time.Millisecond,
		logger:        logger,
	}

	return gateway, server
}

func TestGitHubGateway_LookupUserREST(t *testing.T) {
	testCases := []struct {
		name           string
		username       string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedLogin  string
		expectedEntry  func(t *testing.T, entry domain.FavoriteEntry)
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:     "happy path - returns the profile with upstream fields kept",
			username: "octocat",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/octocat", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","public_repos":8,"followers":5000,"avatar_url":"https://avatars.githubusercontent.com/u/583231"}`)
			},
			expectedLogin: "octocat",
			expectedEntry: func(t *testing.T, entry domain.FavoriteEntry) {
				assert.Equal(t, "The Octocat", entry.Name)
				assert.Equal(t, 8, entry.PublicRepos)
				assert.Equal(t, 5000, entry.Followers)
				assert.JSONEq(t, `"https://avatars.githubusercontent.com/u/583231"`, string(entry.Extra["avatar_url"]))
			},
		},
		{
			name:     "not found - returns an empty entry without error",
			username: "no-such-user",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			},
			expectedLogin: "",
		},
		{
			name:     "blank username - no request is made",
			username: "   ",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				t.Errorf("unexpected request to %s", r.URL.Path)
			},
			expectedLogin: "",
		},
		{
			name:     "error case - GitHub API keeps returning an error",
			username: "octocat",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to fetch user with REST API",
		},
		{
			name:     "error case - client errors are not retried",
			username: "octocat",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Bad credentials"}`)
			},
			expectError:    true,
			expectedErrMsg: "Bad credentials",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc), false)
			defer server.Close()
			entry, err := gateway.LookupUser(context.Background(), tc.username)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedLogin, entry.Login)
				if tc.expectedEntry != nil {
					tc.expectedEntry(t, entry)
				}
			}
		})
	}
}

func TestGitHubGateway_LookupUserRESTRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"message": "Bad Gateway"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"login":"octocat","public_repos":8,"followers":5000}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler), false)
	defer server.Close()

	entry, err := gateway.LookupUser(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", entry.Login)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGitHubGateway_LookupUserGraphQL(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expectedEntry  domain.FavoriteEntry
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:         "happy path",
			responseBody: `{"data":{"user":{"login":"octocat","name":"The Octocat","avatarUrl":"https://avatars.githubusercontent.com/u/583231","url":"https://github.com/octocat","repositories":{"totalCount":8},"followers":{"totalCount":5000}}}}`,
			expectedEntry: domain.FavoriteEntry{
				Login:       "octocat",
				Name:        "The Octocat",
				PublicRepos: 8,
				Followers:   5000,
			},
		},
		{
			name:          "not found",
			responseBody:  `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","path":["user"],"message":"Could not resolve to a User with the login of 'ghost'."}]}`,
			expectedEntry: domain.FavoriteEntry{},
		},
		{
			name:           "error case",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange: set up a handler that checks the query and returns the specified response.
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "user(login: $login)")

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler), true)
			defer server.Close()

			// Act: call the method under test.
			entry, err := gateway.LookupUser(context.Background(), "octocat")

			// Assert: check the results.
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedEntry.Login, entry.Login)
			assert.Equal(t, tc.expectedEntry.Name, entry.Name)
			assert.Equal(t, tc.expectedEntry.PublicRepos, entry.PublicRepos)
			assert.Equal(t, tc.expectedEntry.Followers, entry.Followers)
			if entry.Login != "" {
				assert.JSONEq(t, `"https://github.com/octocat"`, string(entry.Extra["html_url"]))
			}
		})
	}
}

func TestNewGitHubGateway_GraphQLNeedsToken(t *testing.T) {
	_, err := NewGitHubGateway(Options{API: APIGraphQL}, log.New(io.Discard, "", 0))
	assert.Error(t, err)

	lookup, err := NewGitHubGateway(Options{API: APIREST, BaseURL: "https://ghe.example.com/api/v3/"}, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.NotNil(t, lookup)
}
