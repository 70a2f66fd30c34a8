// Package apiserver provides a fake jux collection server for
// integration testing. It implements the POST /junit/submit contract
// with in-memory duplicate detection, so publish paths can be exercised
// without a real deployment.
package apiserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// TestAPI is a fake collection server. Reports are deduplicated by
// content, standing in for the production server's canonical-hash
// check.
type TestAPI struct {
	t      testing.TB
	server *httptest.Server

	mu           sync.Mutex
	token        string
	seen         map[string]string
	requests     int
	failuresLeft int
}

// New starts a test server. Call Close() when done.
func New(t testing.TB) *TestAPI {
	t.Helper()

	api := &TestAPI{
		t:    t,
		seen: make(map[string]string),
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	return api
}

// Close shuts the server down.
func (a *TestAPI) Close() {
	a.server.Close()
}

// URL returns the API base URL.
func (a *TestAPI) URL() string {
	return a.server.URL
}

// RequireToken makes every subsequent request demand this bearer token.
func (a *TestAPI) RequireToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// FailNext makes the next n submissions answer HTTP 500, for retry
// tests.
func (a *TestAPI) FailNext(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failuresLeft = n
}

// Requests returns how many submissions the server has seen, including
// rejected ones.
func (a *TestAPI) Requests() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}

// Stored returns how many distinct reports the server has accepted.
func (a *TestAPI) Stored() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}

func (a *TestAPI) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/junit/submit" {
		http.NotFound(w, r)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests++

	if a.failuresLeft > 0 {
		a.failuresLeft--
		a.reply(w, http.StatusInternalServerError, domain.ErrorDetail{
			Code: domain.ErrCodePublish.String(), Message: "induced server failure"})
		return
	}
	if a.token != "" && r.Header.Get("Authorization") != "Bearer "+a.token {
		a.reply(w, http.StatusUnauthorized, domain.ErrorDetail{
			Code: domain.ErrCodePublish.String(), Message: "missing or invalid bearer token"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		a.reply(w, http.StatusBadRequest, domain.ErrorDetail{
			Code: domain.ErrCodeParse.String(), Message: "empty or unreadable report body"})
		return
	}

	sum := sha256.Sum256(body)
	key := hex.EncodeToString(sum[:])
	if _, dup := a.seen[key]; dup {
		a.reply(w, http.StatusConflict, domain.ErrorDetail{
			Code: domain.ErrCodeDuplicateReport.String(), Message: "report already submitted"})
		return
	}

	runID := fmt.Sprintf("run-%04d", len(a.seen)+1)
	a.seen[key] = runID
	a.reply(w, http.StatusCreated, domain.PublishReceipt{
		TestRunID: runID,
		Message:   "report accepted",
	})
}

func (a *TestAPI) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.t.Errorf("encoding test API response failed: %v", err)
	}
}
