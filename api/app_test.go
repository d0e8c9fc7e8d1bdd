package api

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/travel-planner/database"
	"github.com/rpupo63/travel-planner/services"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-secret"

// testApp runs the router against a fake backend with a browser-like client
// that keeps cookies and does not follow redirects.
type testApp struct {
	t       *testing.T
	backend *fakeBackend
	store   *database.MemoryStore
	server  *httptest.Server
	client  *http.Client
}

type testResponse struct {
	status   int
	body     string
	location string
	header   http.Header
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := newFakeBackend(t)

	store, err := database.NewMemoryStore(time.Hour)
	require.NoError(t, err)

	router := newRouter(database.New(store), services.NewTravelClient(backend.URL()), withConfig(map[string]string{
		"SESSION_SECRET":   testSessionSecret,
		"ACCEPTED_ORIGINS": "https://allowed.example",
		"APP_VERSION":      "test",
	}))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		t:       t,
		backend: backend,
		store:   store,
		server:  server,
		client:  newBrowser(t),
	}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) do(req *http.Request) testResponse {
	a.t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return testResponse{
		status:   resp.StatusCode,
		body:     string(body),
		location: resp.Header.Get("Location"),
		header:   resp.Header,
	}
}

func (a *testApp) get(path string) testResponse {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(a.t, err)
	return a.do(req)
}

func (a *testApp) post(path string, form url.Values) testResponse {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// sessionID returns the id carried by the session cookie.
func (a *testApp) sessionID() string {
	a.t.Helper()
	u, err := url.Parse(a.server.URL)
	require.NoError(a.t, err)
	for _, cookie := range a.client.Jar.Cookies(u) {
		if cookie.Name == sessionCookieName {
			id, err := newSessionManager(testSessionSecret, time.Hour, false).parse(cookie.Value)
			require.NoError(a.t, err)
			return id
		}
	}
	a.t.Fatal("no session cookie")
	return ""
}
