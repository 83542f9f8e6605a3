package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(env *testEnv) http.Handler {
	return NewHTTPServer(env.service, "http://localhost:3000").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

// sessionCookie extracts the sprout_session cookie from a response
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			return fmt.Sprintf("%s=%s", SessionCookieName, cookie.Value)
		}
	}
	t.Fatal("response carries no session cookie")
	return ""
}

func TestHealth(t *testing.T) {
	handler := newTestServer(newTestEnv())

	rec := doJSON(t, handler, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if payload := decodeJSON(t, rec); payload["ok"] != true {
		t.Errorf("health payload = %v", payload)
	}
}

func TestReady(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)

	rec := doJSON(t, handler, http.MethodGet, "/api/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}

	env.data.pingErr = errors.New("connection refused")
	rec = doJSON(t, handler, http.MethodGet, "/api/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status with failing db = %d", rec.Code)
	}
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	handler := newTestServer(newTestEnv())

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     "ada@example.com",
		"password":  "long-enough-pw",
		"spaceName": "Acme Feedback",
		"spaceSlug": "acme",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body = %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)

	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	payload := decodeJSON(t, rec)
	if payload["authenticated"] != true {
		t.Errorf("me payload = %v", payload)
	}
	if user := payload["user"].(map[string]any); user["email"] != "ada@example.com" {
		t.Errorf("me user = %v", user)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/logout", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "long-enough-pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", rec.Code, rec.Body.String())
	}
	sessionCookie(t, rec)
}

func TestMeWithoutSession(t *testing.T) {
	handler := newTestServer(newTestEnv())

	// No cookie and a stale cookie both resolve to an anonymous 200.
	for _, cookie := range []string{"", SessionCookieName + "=gone"} {
		rec := doJSON(t, handler, http.MethodGet, "/api/auth/me", cookie, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("me status = %d (cookie %q)", rec.Code, cookie)
		}
		payload := decodeJSON(t, rec)
		if payload["authenticated"] != false {
			t.Errorf("payload = %v (cookie %q)", payload, cookie)
		}
		if _, present := payload["user"]; present {
			t.Errorf("anonymous payload carries a user: %v", payload)
		}
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	handler := newTestServer(newTestEnv())

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "ada@example.com", "password": "long-enough-pw", "spaceName": "Acme", "spaceSlug": "acme",
	})
	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			issued = c
		}
	}
	if issued == nil {
		t.Fatal("signup set no session cookie")
	}
	if !issued.HttpOnly || !issued.Secure || issued.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags = HttpOnly:%v Secure:%v SameSite:%v", issued.HttpOnly, issued.Secure, issued.SameSite)
	}
	if issued.Path != "/" {
		t.Errorf("cookie path = %q", issued.Path)
	}
	if issued.MaxAge != 604800 {
		t.Errorf("cookie max-age = %d, want 604800", issued.MaxAge)
	}
}

func TestSignupConflictStatus(t *testing.T) {
	handler := newTestServer(newTestEnv())

	body := map[string]string{
		"email":     "ada@example.com",
		"password":  "long-enough-pw",
		"spaceName": "Acme",
		"spaceSlug": "acme",
	}
	doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", body)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
	if payload := decodeJSON(t, rec); payload["code"] != "EMAIL_EXISTS" {
		t.Errorf("payload = %v", payload)
	}
}

func TestAnonymousBoardFlow(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)
	signUp(t, env, "owner@example.com", "acme")

	// Idea creation needs no session.
	rec := doJSON(t, handler, http.MethodPost, "/api/spaces/acme/ideas", "", map[string]string{
		"title":       "Dark mode",
		"description": "Please",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create idea status = %d body = %s", rec.Code, rec.Body.String())
	}
	ideaID := decodeJSON(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodPost, "/api/ideas/"+ideaID+"/vote", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("vote status = %d", rec.Code)
	}
	if payload := decodeJSON(t, rec); payload["votes"] != float64(2) {
		t.Errorf("votes = %v", payload["votes"])
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/ideas/"+ideaID+"/comments", "", map[string]string{
		"text": "yes please",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme/ideas", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list ideas status = %d", rec.Code)
	}
	ideas := decodeJSON(t, rec)["ideas"].([]any)
	if len(ideas) != 1 {
		t.Fatalf("got %d ideas", len(ideas))
	}
	idea := ideas[0].(map[string]any)
	if len(idea["comments"].([]any)) != 1 {
		t.Errorf("idea comments = %v", idea["comments"])
	}

	// Status changes require a session.
	rec = doJSON(t, handler, http.MethodPatch, "/api/ideas/"+ideaID+"/status", "", map[string]string{"status": "done"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status change status = %d", rec.Code)
	}
}

func TestOwnerGatesOverHTTP(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "owner@example.com", "password": "long-enough-pw", "spaceName": "Acme", "spaceSlug": "acme",
	})
	ownerCookie := sessionCookie(t, rec)

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "other@example.com", "password": "long-enough-pw", "spaceName": "Other", "spaceSlug": "other",
	})
	otherCookie := sessionCookie(t, rec)

	rec = doJSON(t, handler, http.MethodPost, "/api/spaces/acme/ideas", "", map[string]string{"title": "Idea"})
	ideaID := decodeJSON(t, rec)["id"].(string)

	// A signed-in non-owner is rejected with 403, not 401.
	rec = doJSON(t, handler, http.MethodPatch, "/api/ideas/"+ideaID+"/status", otherCookie, map[string]string{"status": "done"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner status change = %d", rec.Code)
	}

	// PUT and PATCH are both accepted for status changes.
	rec = doJSON(t, handler, http.MethodPut, "/api/ideas/"+ideaID+"/status", ownerCookie, map[string]string{"status": "done"})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner status change = %d body = %s", rec.Code, rec.Body.String())
	}

	// Voting a closed idea conflicts.
	rec = doJSON(t, handler, http.MethodPost, "/api/ideas/"+ideaID+"/vote", "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("vote on closed idea = %d", rec.Code)
	}
	if payload := decodeJSON(t, rec); payload["code"] != "IDEA_CLOSED" {
		t.Errorf("payload = %v", payload)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/spaces/acme", otherCookie, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodDelete, "/api/spaces/acme", ownerCookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted space fetch = %d", rec.Code)
	}
}

func TestSpaceViewExposesOwnership(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "owner@example.com", "password": "long-enough-pw", "spaceName": "Acme", "spaceSlug": "acme",
	})
	ownerCookie := sessionCookie(t, rec)

	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme", "", nil)
	if payload := decodeJSON(t, rec); payload["isOwner"] != false {
		t.Errorf("anonymous viewer isOwner = %v", payload["isOwner"])
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme", ownerCookie, nil)
	if payload := decodeJSON(t, rec); payload["isOwner"] != true {
		t.Errorf("owner isOwner = %v", payload["isOwner"])
	}
}

func TestExportDownload(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "owner@example.com", "password": "long-enough-pw", "spaceName": "Acme", "spaceSlug": "acme",
	})
	cookie := sessionCookie(t, rec)
	doJSON(t, handler, http.MethodPost, "/api/spaces/acme/ideas", "", map[string]string{"title": "Dark mode"})

	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme/export", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous export = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/spaces/acme/export", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "acme-ideas.csv") {
		t.Errorf("content disposition = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "ID,Title,Description,Status,Votes,Created At") {
		t.Errorf("csv body = %q", rec.Body.String())
	}
}

func TestVerifyRedirects(t *testing.T) {
	env := newTestEnv()
	handler := newTestServer(env)
	signUp(t, env, "ada@example.com", "acme")
	token := env.data.users["ada@example.com"].VerificationToken

	rec := doJSON(t, handler, http.MethodGet, "/api/auth/verify?token="+token, "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("verify status = %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?verified=true" {
		t.Errorf("redirect = %q", got)
	}
	if !env.data.users["ada@example.com"].IsVerified {
		t.Error("user not marked verified")
	}

	// Spent token redirects to the error page.
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/verify?token="+token, "", nil)
	if got := rec.Header().Get("Location"); got != "/login?error=invalid_token" {
		t.Errorf("redirect = %q", got)
	}
}

func TestWaitlistEndpoint(t *testing.T) {
	handler := newTestServer(newTestEnv())

	rec := doJSON(t, handler, http.MethodPost, "/api/waitlist", "", map[string]string{"email": "keen@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("waitlist status = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/waitlist", "", map[string]string{"email": "keen@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate waitlist status = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/waitlist", "", map[string]string{"email": "nope"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid email waitlist status = %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	handler := newTestServer(newTestEnv())
	rec := doJSON(t, handler, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
