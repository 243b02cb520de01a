package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/api"
	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewJWTManager("test-secret-key", auth.TokenValidity)
	authenticator := auth.NewPasswordAuthenticator(store)
	resolver := auth.NewResolver(tokens, store)
	tasks := service.NewTaskListService(store, nil)

	server := httptest.NewServer(api.New(authenticator, tokens, tasks, nil).Handler(resolver))
	t.Cleanup(server.Close)

	return server
}

// call sends a JSON request and decodes the JSON response into out (if non-nil).
func call(t *testing.T, server *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authPayload struct {
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	} `json:"user"`
	Token string `json:"token"`
}

type taskListPayload struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Progress float64 `json:"progress"`
	Users    []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"users"`
	ToDos []struct {
		ID          string `json:"id"`
		Content     string `json:"content"`
		IsCompleted bool   `json:"isCompleted"`
	} `json:"todos"`
}

func signUp(t *testing.T, server *httptest.Server, email, name string) authPayload {
	t.Helper()
	var out authPayload
	status := call(t, server, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"name":     name,
		"password": "hunter2hunter2",
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out
}

func TestSignUpThenSignIn(t *testing.T) {
	server := setupTestServer(t)

	created := signUp(t, server, "ada@example.com", "Ada")

	var signedIn authPayload
	status := call(t, server, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	}, &signedIn)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.User.ID, signedIn.User.ID)
	assert.NotEmpty(t, signedIn.Token)
}

func TestSignUp_DuplicateEmailConflict(t *testing.T) {
	server := setupTestServer(t)
	signUp(t, server, "ada@example.com", "Ada")

	status := call(t, server, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "ada@example.com",
		"name":     "Imposter",
		"password": "anotherpassword",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestSignIn_UniformFailureMessage(t *testing.T) {
	server := setupTestServer(t)
	signUp(t, server, "ada@example.com", "Ada")

	var unknown, wrong struct {
		Error string `json:"error"`
	}
	unknownStatus := call(t, server, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "nobody@example.com", "password": "hunter2hunter2",
	}, &unknown)
	wrongStatus := call(t, server, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}, &wrong)

	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, unknown.Error, wrong.Error, "unknown email and wrong password must be indistinguishable")
}

func TestAnonymousGets401(t *testing.T) {
	server := setupTestServer(t)

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/tasklists", nil},
		{http.MethodPost, "/api/v1/tasklists", map[string]string{"title": "X"}},
		{http.MethodGet, "/api/v1/tasklists/some-id", nil},
		{http.MethodPatch, "/api/v1/tasklists/some-id", map[string]string{"title": "X"}},
		{http.MethodDelete, "/api/v1/tasklists/some-id", nil},
		{http.MethodPost, "/api/v1/tasklists/some-id/collaborators", map[string]string{"userId": "u"}},
		{http.MethodPost, "/api/v1/tasklists/some-id/todos", map[string]string{"content": "X"}},
	} {
		status := call(t, server, tc.method, tc.path, "", tc.body, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", tc.method, tc.path)
	}
}

func TestExpiredTokenDegradesToAnonymous(t *testing.T) {
	server := setupTestServer(t)
	user := signUp(t, server, "ada@example.com", "Ada")

	expired, err := auth.NewJWTManager("test-secret-key", -1).Issue(user.User.ID)
	require.NoError(t, err)

	status := call(t, server, http.MethodGet, "/api/v1/tasklists", expired, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCollaborationEndToEnd(t *testing.T) {
	server := setupTestServer(t)

	alice := signUp(t, server, "alice@example.com", "Alice")
	bob := signUp(t, server, "bob@example.com", "Bob")
	carol := signUp(t, server, "carol@example.com", "Carol")

	// Alice creates "Groceries".
	var list taskListPayload
	status := call(t, server, http.MethodPost, "/api/v1/tasklists", alice.Token,
		map[string]string{"title": "Groceries"}, &list)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Alice", list.Users[0].Name)

	// Bob cannot see it yet.
	status = call(t, server, http.MethodGet, "/api/v1/tasklists/"+list.ID, bob.Token, nil, nil)
	require.Equal(t, http.StatusForbidden, status)

	// Alice invites Bob.
	var updated taskListPayload
	status = call(t, server, http.MethodPost, "/api/v1/tasklists/"+list.ID+"/collaborators", alice.Token,
		map[string]string{"userId": bob.User.ID}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, updated.Users, 2)
	assert.Equal(t, "Alice", updated.Users[0].Name, "creator stays first")

	// Bob adds a todo.
	status = call(t, server, http.MethodPost, "/api/v1/tasklists/"+list.ID+"/todos", bob.Token,
		map[string]string{"content": "Milk"}, nil)
	require.Equal(t, http.StatusCreated, status)

	// Both collaborators see the todo.
	for name, token := range map[string]string{"alice": alice.Token, "bob": bob.Token} {
		var got taskListPayload
		status = call(t, server, http.MethodGet, "/api/v1/tasklists/"+list.ID, token, nil, &got)
		require.Equal(t, http.StatusOK, status, name)
		require.Len(t, got.ToDos, 1, name)
		assert.Equal(t, "Milk", got.ToDos[0].Content, name)
	}

	// Carol is denied and never sees the contents.
	var denied struct {
		Error string `json:"error"`
	}
	status = call(t, server, http.MethodGet, "/api/v1/tasklists/"+list.ID, carol.Token, nil, &denied)
	require.Equal(t, http.StatusForbidden, status)
	assert.NotContains(t, denied.Error, "Groceries")
	assert.NotContains(t, denied.Error, "Milk")

	// Carol cannot mutate either.
	status = call(t, server, http.MethodDelete, "/api/v1/tasklists/"+list.ID, carol.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProgressOverHTTP(t *testing.T) {
	server := setupTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")

	var list taskListPayload
	status := call(t, server, http.MethodPost, "/api/v1/tasklists", alice.Token,
		map[string]string{"title": "Chores"}, &list)
	require.Equal(t, http.StatusCreated, status)
	assert.Zero(t, list.Progress)

	var todoIDs []string
	for i := 0; i < 5; i++ {
		var todo struct {
			ID string `json:"id"`
		}
		status = call(t, server, http.MethodPost, "/api/v1/tasklists/"+list.ID+"/todos", alice.Token,
			map[string]string{"content": fmt.Sprintf("item %d", i)}, &todo)
		require.Equal(t, http.StatusCreated, status)
		todoIDs = append(todoIDs, todo.ID)
	}
	for _, id := range todoIDs[:2] {
		status = call(t, server, http.MethodPatch, "/api/v1/todos/"+id, alice.Token,
			map[string]bool{"isCompleted": true}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var got taskListPayload
	status = call(t, server, http.MethodGet, "/api/v1/tasklists/"+list.ID, alice.Token, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.4, got.Progress, 1e-9)
}

func TestNotFoundVersusForbidden(t *testing.T) {
	server := setupTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")

	status := call(t, server, http.MethodGet, "/api/v1/tasklists/no-such-list", alice.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var list taskListPayload
	call(t, server, http.MethodPost, "/api/v1/tasklists", alice.Token, map[string]string{"title": "Trip"}, &list)

	status = call(t, server, http.MethodPost, "/api/v1/tasklists/"+list.ID+"/collaborators", alice.Token,
		map[string]string{"userId": "no-such-user"}, nil)
	assert.Equal(t, http.StatusNotFound, status, "adding a nonexistent user is rejected")
}

func TestValidationErrors(t *testing.T) {
	server := setupTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")

	status := call(t, server, http.MethodPost, "/api/v1/tasklists", alice.Token, map[string]string{"title": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, server, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "short@example.com", "name": "Shorty", "password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthz(t *testing.T) {
	server := setupTestServer(t)

	status := call(t, server, http.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}
