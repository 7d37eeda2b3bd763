package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroomhq/newsroom/internal/errors"
)

func TestLoginReturnsDirectiveFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "reader@example.com", req.Email)
		_, _ = w.Write([]byte(`{"token":"tok","roleMissing":false,"need2faSetup":true,"need2faVerify":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	auth, err := client.Login(context.Background(), "reader@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.Token)
	assert.True(t, auth.NeedTwoFASetup)
	assert.False(t, auth.RoleMissing)
}

func TestLoginRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "reader@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidCredentials))
}

func TestRegisterForcesUnassignedRole(t *testing.T) {
	var gotRole Role
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotRole = req.Role
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	err := client.Register(context.Background(), RegisterRequest{Email: "x@y.z", Role: RoleJournalist})
	require.NoError(t, err)
	assert.Equal(t, RoleUnassigned, gotRole)
}

func TestSignUpDuplicateNeverAttemptsLogin(t *testing.T) {
	var loginCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			w.WriteHeader(http.StatusConflict)
		case "/auth/login":
			loginCalls++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.SignUp(context.Background(), RegisterRequest{Email: "taken@example.com", Password: "Passw0rd!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateAccount))
	assert.Equal(t, 0, loginCalls, "a failed registration must short-circuit the composite")
}

func TestSignUpRegisteredButLoginFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			w.WriteHeader(http.StatusOK)
		case "/auth/login":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.SignUp(context.Background(), RegisterRequest{Email: "new@example.com", Password: "Passw0rd!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRegisteredNoSession))
}

func TestSignUpSuccess(t *testing.T) {
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path)
		switch r.URL.Path {
		case "/auth/register":
			w.WriteHeader(http.StatusOK)
		case "/auth/login":
			_, _ = w.Write([]byte(`{"token":"fresh","roleMissing":true}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	auth, err := client.SignUp(context.Background(), RegisterRequest{Email: "new@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", auth.Token)
	assert.True(t, auth.RoleMissing)
	assert.Equal(t, []string{"/auth/register", "/auth/login"}, order)
}

func TestUpdateProfileConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{Email: "taken@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeProfileConflict))
}

func TestVerifyTwoFARejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.VerifyTwoFA(context.Background(), "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTwoFACodeRejected))
}
