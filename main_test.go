package main

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
)

// Setup a fresh temp database behind the package-level handle
func setupTestDB(t *testing.T) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "oceanmeet-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := initDB(tmpFile.Name()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
}

// Setup a test server over a fresh temp database
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	setupTestDB(t)
	store = newStore("test secret")

	ts := httptest.NewServer(setupRouter())
	t.Cleanup(ts.Close)
	return ts
}

// Client with its own cookie jar — follows redirects automatically
func newClient(t *testing.T, ts *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := ts.Client()
	client.Jar = jar
	return client
}

// Helper: read response body as string
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

// Helper: POST a form and return the final body
func postForm(t *testing.T, ts *httptest.Server, client *http.Client, path string, form url.Values) string {
	t.Helper()
	resp, err := client.PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatal(err)
	}
	return readBody(t, resp)
}

// Helper: GET a page and return body
func getBody(t *testing.T, ts *httptest.Server, client *http.Client, path string) string {
	t.Helper()
	resp, err := client.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	return readBody(t, resp)
}

// Helper: register a user with a profile
func register(t *testing.T, ts *httptest.Server, client *http.Client, username, password string, profile url.Values) string {
	t.Helper()
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	for key, vals := range profile {
		form[key] = vals
	}
	return postForm(t, ts, client, "/register", form)
}

func login(t *testing.T, ts *httptest.Server, client *http.Client, username, password string) string {
	t.Helper()
	return postForm(t, ts, client, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
}

func doLogout(t *testing.T, ts *httptest.Server, client *http.Client) string {
	t.Helper()
	return getBody(t, ts, client, "/logout")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	// Registration logs the user in and lands on the dashboard
	body := register(t, ts, client, "alice", "default", url.Values{"name": {"Alice A."}})
	if !strings.Contains(body, "Welcome to OceanMeet") {
		t.Error("Expected welcome message after registration")
	}
	if !strings.Contains(body, "All meetups") {
		t.Error("Expected to land on the dashboard after registration")
	}

	// The same credentials work on a fresh session
	doLogout(t, ts, client)
	body = login(t, ts, client, "alice", "default")
	if !strings.Contains(body, "You were logged in") {
		t.Error("Expected 'logged in' message")
	}
	if !strings.Contains(body, "log out [alice]") {
		t.Error("Expected session to carry the username")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	register(t, ts, client, "alice", "default", url.Values{"city": {"Odense"}})
	doLogout(t, ts, client)

	body := register(t, ts, client, "alice", "other", url.Values{"city": {"Aarhus"}})
	if !strings.Contains(body, "The username is already taken") {
		t.Error("Expected 'username already taken' message")
	}

	// The existing profile must be untouched
	u, err := getUserByUsername("alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.City != "Odense" {
		t.Errorf("Expected city to stay 'Odense', got %q", u.City)
	}
	if !checkPassword(u.PwHash, "default") {
		t.Error("Expected original password to still verify")
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	body := register(t, ts, client, "", "default", nil)
	if !strings.Contains(body, "You have to enter a username") {
		t.Error("Expected 'enter a username' message")
	}

	body = register(t, ts, client, "meh", "", nil)
	if !strings.Contains(body, "You have to enter a password") {
		t.Error("Expected 'enter a password' message")
	}
}

func TestLoginValidation(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	register(t, ts, client, "alice", "default", nil)
	doLogout(t, ts, client)

	body := login(t, ts, client, "alice", "wrongpassword")
	if !strings.Contains(body, "Invalid password") {
		t.Error("Expected 'Invalid password' message")
	}

	body = login(t, ts, client, "nobody", "whatever")
	if !strings.Contains(body, "Invalid username") {
		t.Error("Expected 'Invalid username' message")
	}
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	for _, path := range []string{"/dashboard", "/profile", "/messaging", "/match", "/meeting_edit", "/meetup"} {
		body := getBody(t, ts, client, path)
		if !strings.Contains(body, "Sign up") {
			t.Errorf("Expected %s to redirect to the entry page", path)
		}
	}
}

func TestProfileUpdate(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	register(t, ts, client, "alice", "default", url.Values{
		"name": {"Alice A."},
		"city": {"Odense"},
		"pets": {"on"},
	})

	body := getBody(t, ts, client, "/profile")
	if !strings.Contains(body, `value="Alice A."`) {
		t.Error("Expected profile form to carry the registered name")
	}

	body = postForm(t, ts, client, "/updateProfile", url.Values{
		"username":    {"alice"},
		"name":        {"Alice A."},
		"city":        {"Berlin"},
		"description": {"Likes long walks"},
		"technology":  {"on"},
	})
	if !strings.Contains(body, "Profile updated") {
		t.Error("Expected 'Profile updated' message")
	}
	if !strings.Contains(body, `value="Berlin"`) {
		t.Error("Expected updated city on the profile page")
	}

	// The overwrite includes the flags: pets was not sent, so it is off now
	u, err := getUserByUsername("alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.Pets || !u.Technology {
		t.Errorf("Expected technology on and pets off, got pets=%v technology=%v", u.Pets, u.Technology)
	}
}

func TestViewProfile(t *testing.T) {
	ts := setupTestServer(t)

	alice := newClient(t, ts)
	register(t, ts, alice, "alice", "default", url.Values{
		"name":        {"Alice A."},
		"description": {"Likes the ocean"},
	})

	bob := newClient(t, ts)
	register(t, ts, bob, "bob", "default", nil)

	body := postForm(t, ts, bob, "/viewprofile", url.Values{"username": {"alice"}})
	if !strings.Contains(body, "Alice A.") || !strings.Contains(body, "Likes the ocean") {
		t.Error("Expected alice's profile on the view page")
	}

	body = postForm(t, ts, bob, "/viewprofile", url.Values{"username": {"nobody"}})
	if !strings.Contains(body, "No such user") {
		t.Error("Expected 'No such user' message")
	}
}

func TestMessaging(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	register(t, ts, client, "alice", "default", nil)

	postForm(t, ts, client, "/send", url.Values{"input": {"first message"}})
	postForm(t, ts, client, "/send", url.Values{"input": {"second message"}})

	body := getBody(t, ts, client, "/messaging")
	if !strings.Contains(body, "first message") || !strings.Contains(body, "second message") {
		t.Error("Expected both messages on the messaging page")
	}
	if strings.Index(body, "first message") > strings.Index(body, "second message") {
		t.Error("Expected messages in insertion order")
	}

	// Ids are store-assigned: two sends never collide, whatever the
	// legacy messagelength field claims
	postForm(t, ts, client, "/send", url.Values{"messagelength": {"1"}, "input": {"third message"}})
	messages, err := listMessages()
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	seen := map[int64]bool{}
	for _, m := range messages {
		if seen[m.MessageID] {
			t.Errorf("Duplicate message id %d", m.MessageID)
		}
		seen[m.MessageID] = true
		if m.PubDate == 0 {
			t.Error("Expected a timestamp on every message")
		}
	}
}

func TestEmptyMessageIgnored(t *testing.T) {
	ts := setupTestServer(t)
	client := newClient(t, ts)

	register(t, ts, client, "alice", "default", nil)
	postForm(t, ts, client, "/send", url.Values{"input": {""}})

	messages, err := listMessages()
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 0 {
		t.Errorf("Expected no messages, got %d", len(messages))
	}
}
