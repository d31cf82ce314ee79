package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delta-student/wanderlust/internal/adapter/repository/memory"
	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/mailer"
	"github.com/delta-student/wanderlust/internal/platform/logger"
	"github.com/delta-student/wanderlust/internal/usecase"
)

type testApp struct {
	server   *httptest.Server
	listings *memory.ListingRepository
	reviews  *memory.ReviewRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := memory.NewUserRepository()
	listings := memory.NewListingRepository()
	reviews := memory.NewReviewRepository()
	log := logger.NewNop()

	userUC := usecase.NewUserUsecase(users, mailer.NoopMailer{}, nil, log)
	listingUC := usecase.NewListingUsecase(listings, reviews, users, nil, nil, log)
	reviewUC := usecase.NewReviewUsecase(reviews, listings, nil, nil, log)

	srv := NewServer(userUC, listingUC, reviewUC,
		session.NewMemoryStore(time.Hour),
		Config{SessionSecret: "test-secret", SessionTTL: time.Hour},
		nil, log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testApp{server: ts, listings: listings, reviews: reviews}
}

// newBrowser returns a client with a cookie jar, behaving like a browser
// session that follows redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func signup(t *testing.T, client *http.Client, base, username, email, password string) string {
	t.Helper()
	resp, body := postForm(t, client, base+"/signup", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, "/listings", resp.Request.URL.Path)
	return body
}

func createListing(t *testing.T, client *http.Client, base, title, price string) (string, string) {
	t.Helper()
	resp, body := postForm(t, client, base+"/listings", url.Values{
		"title":       {title},
		"description": {"A lovely place to stay"},
		"price":       {price},
		"location":    {"Lapland"},
		"country":     {"Finland"},
	})
	id := strings.TrimPrefix(resp.Request.URL.Path, "/listings/")
	require.NotEmpty(t, id)
	require.NotContains(t, id, "/")
	return id, body
}

func TestRootRedirectsToListings(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)

	resp, body := get(t, client, app.server.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/listings", resp.Request.URL.Path)
	assert.Contains(t, body, "All Listings")
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)

	body := signup(t, client, app.server.URL, "alice", "a@example.com", "pw12345")
	assert.Contains(t, body, "Welcome to WanderLust!")
	assert.Contains(t, body, "alice")

	// Flashes are one-shot: a reload no longer shows the greeting.
	_, body = get(t, client, app.server.URL+"/listings")
	assert.NotContains(t, body, "Welcome to WanderLust!")

	_, body = get(t, client, app.server.URL+"/logout")
	assert.Contains(t, body, "you are logged out now!")
	assert.Contains(t, body, "Log In")

	resp, body := postForm(t, client, app.server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"pw12345"},
	})
	assert.Equal(t, "/listings", resp.Request.URL.Path)
	assert.Contains(t, body, "Welcome back to WanderLust!")
}

func TestSignupDuplicateShowsError(t *testing.T) {
	app := newTestApp(t)

	signup(t, newBrowser(t), app.server.URL, "alice", "a@example.com", "pw12345")

	client := newBrowser(t)
	resp, body := postForm(t, client, app.server.URL+"/signup", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"pw12345"},
	})
	assert.Equal(t, "/signup", resp.Request.URL.Path)
	assert.Contains(t, body, "already")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t)
	signup(t, newBrowser(t), app.server.URL, "alice", "a@example.com", "pw12345")

	client := newBrowser(t)
	resp, body := postForm(t, client, app.server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Invalid username or password")
}

func TestAuthRequiredRedirectsToLoginAndBack(t *testing.T) {
	app := newTestApp(t)
	signup(t, newBrowser(t), app.server.URL, "alice", "a@example.com", "pw12345")

	client := newBrowser(t)
	resp, body := get(t, client, app.server.URL+"/listings/new")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "You must be logged in first!")

	// Logging in returns to the page that triggered the redirect.
	resp, _ = postForm(t, client, app.server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"pw12345"},
	})
	assert.Equal(t, "/listings/new", resp.Request.URL.Path)
}

func TestListingLifecycle(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)
	signup(t, client, app.server.URL, "alice", "a@example.com", "pw12345")

	id, body := createListing(t, client, app.server.URL, "Cozy Cabin", "100")
	assert.Contains(t, body, "New Listing Created!")
	assert.Contains(t, body, "Cozy Cabin")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "No reviews yet.")

	_, body = get(t, client, app.server.URL+"/listings")
	assert.Contains(t, body, "Cozy Cabin")

	resp, body := postForm(t, client, app.server.URL+"/listings/"+id+"?_method=PUT", url.Values{
		"title":       {"Renovated Cabin"},
		"description": {"A lovely place to stay"},
		"price":       {"120"},
		"location":    {"Lapland"},
		"country":     {"Finland"},
	})
	assert.Equal(t, "/listings/"+id, resp.Request.URL.Path)
	assert.Contains(t, body, "Listing Updated!")
	assert.Contains(t, body, "Renovated Cabin")

	resp, body = postForm(t, client, app.server.URL+"/listings/"+id+"?_method=DELETE", nil)
	assert.Equal(t, "/listings", resp.Request.URL.Path)
	assert.Contains(t, body, "Listing Deleted!")

	resp, body = get(t, client, app.server.URL+"/listings/"+id)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")
}

func TestListingCreateValidationFlash(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)
	signup(t, client, app.server.URL, "alice", "a@example.com", "pw12345")

	resp, body := postForm(t, client, app.server.URL+"/listings", url.Values{
		"title":       {""},
		"description": {"A lovely place to stay"},
		"price":       {"100"},
		"location":    {"Lapland"},
	})
	assert.Equal(t, "/listings/new", resp.Request.URL.Path)
	assert.Contains(t, body, "title cannot be empty")

	resp, body = postForm(t, client, app.server.URL+"/listings", url.Values{
		"title":       {"Cabin"},
		"description": {"A lovely place to stay"},
		"price":       {"not-a-number"},
		"location":    {"Lapland"},
	})
	assert.Equal(t, "/listings/new", resp.Request.URL.Path)
	assert.Contains(t, body, "price must be a number")
}

func TestOwnershipGuard(t *testing.T) {
	app := newTestApp(t)

	alice := newBrowser(t)
	signup(t, alice, app.server.URL, "alice", "a@example.com", "pw12345")
	id, _ := createListing(t, alice, app.server.URL, "Cozy Cabin", "100")

	bob := newBrowser(t)
	signup(t, bob, app.server.URL, "bob", "b@example.com", "pw12345")

	// Bob gets bounced off the edit page.
	resp, body := get(t, bob, app.server.URL+"/listings/"+id+"/edit")
	assert.Equal(t, "/listings/"+id, resp.Request.URL.Path)
	assert.Contains(t, body, "You are not the owner of this listing!")

	// And cannot delete someone else's listing.
	resp, body = postForm(t, bob, app.server.URL+"/listings/"+id+"?_method=DELETE", nil)
	assert.Equal(t, "/listings/"+id, resp.Request.URL.Path)
	assert.Contains(t, body, "You are not the owner of this listing!")

	resp, _ = get(t, bob, app.server.URL+"/listings/"+id)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReviewFlow(t *testing.T) {
	app := newTestApp(t)

	alice := newBrowser(t)
	signup(t, alice, app.server.URL, "alice", "a@example.com", "pw12345")
	id, _ := createListing(t, alice, app.server.URL, "Cozy Cabin", "100")

	bob := newBrowser(t)
	signup(t, bob, app.server.URL, "bob", "b@example.com", "pw12345")

	resp, body := postForm(t, bob, app.server.URL+"/listings/"+id+"/reviews", url.Values{
		"rating":  {"5"},
		"comment": {"Great stay"},
	})
	assert.Equal(t, "/listings/"+id, resp.Request.URL.Path)
	assert.Contains(t, body, "New Review Created!")
	assert.Contains(t, body, "Great stay")
	assert.Contains(t, body, "5/5")
	assert.Equal(t, 1, strings.Count(body, "Great stay"))

	// An out-of-range rating is rejected with a flash, not persisted.
	_, body = postForm(t, bob, app.server.URL+"/listings/"+id+"/reviews", url.Values{
		"rating":  {"9"},
		"comment": {"way too good"},
	})
	assert.Contains(t, body, "rating must be between 1 and 5")
	assert.NotContains(t, body, "way too good")
}

func TestListingDeleteCascadesReviews(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)
	signup(t, client, app.server.URL, "alice", "a@example.com", "pw12345")
	id, _ := createListing(t, client, app.server.URL, "Cozy Cabin", "100")

	_, _ = postForm(t, client, app.server.URL+"/listings/"+id+"/reviews", url.Values{
		"rating":  {"4"},
		"comment": {"nice"},
	})

	_, _ = postForm(t, client, app.server.URL+"/listings/"+id+"?_method=DELETE", nil)

	listing, _ := app.listings.FindByID(context.Background(), mustObjectID(t, id))
	assert.Nil(t, listing)
	orphans, err := app.reviews.FindByListingID(context.Background(), mustObjectID(t, id))
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestUnknownRoutesRender404Page(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)

	resp, body := get(t, client, app.server.URL+"/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")

	// A malformed listing id behaves like a missing listing.
	resp, body = get(t, client, app.server.URL+"/listings/not-a-valid-id")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")
}

func TestSessionRotatesOnLogin(t *testing.T) {
	app := newTestApp(t)
	client := newBrowser(t)

	base, err := url.Parse(app.server.URL)
	require.NoError(t, err)

	get(t, client, app.server.URL+"/listings")
	before := sessionCookieValue(client, base)
	require.NotEmpty(t, before)

	signup(t, client, app.server.URL, "alice", "a@example.com", "pw12345")
	after := sessionCookieValue(client, base)
	require.NotEmpty(t, after)
	assert.NotEqual(t, before, after)
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func sessionCookieValue(client *http.Client, base *url.URL) string {
	for _, c := range client.Jar.Cookies(base) {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}
	return ""
}
