//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesOrganizationAndAdmin(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/auth/register", map[string]string{
		"email":             "founder@acme.test",
		"password":          "password123",
		"name":              "Founder",
		"organization_name": "Acme Corp",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Organization struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"organization"`
	}
	testutil.DecodeJSON(t, resp, &auth)

	assert.NotEmpty(t, auth.AccessToken)
	assert.Equal(t, "founder@acme.test", auth.User.Email)
	assert.Equal(t, "admin", auth.User.Role)
	assert.Equal(t, "Acme Corp", auth.Organization.Name)
	assert.Equal(t, "acme-corp", auth.Organization.Slug)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	client, _, _ := registerTenant(t)

	// Find the email we just registered via /me.
	resp, err := client.GET("/api/auth/me")
	require.NoError(t, err)
	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, resp, &me)

	resp, err = client.POST("/api/auth/register", map[string]string{
		"email":             me.User.Email,
		"password":          "password123",
		"name":              "Clone",
		"organization_name": "Clone Inc",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutil.ReadBody(t, resp), "already exists")
}

func TestRegister_SlugCollisionGetsSuffix(t *testing.T) {
	client := newTestClient(t)
	n := tenantSeq.Add(1)

	first := newTestClient(t)
	_, firstSlug := registerOrgNamed(t, first, fmt.Sprintf("Shared Name %d", n), fmt.Sprintf("a%d@slug.test", n))
	_, secondSlug := registerOrgNamed(t, client, fmt.Sprintf("Shared Name %d", n), fmt.Sprintf("b%d@slug.test", n))

	assert.NotEqual(t, firstSlug, secondSlug)
	assert.Contains(t, secondSlug, firstSlug+"-", "collision is resolved with a suffix")
}

func registerOrgNamed(t *testing.T, client *testutil.Client, orgName, email string) (orgID, slug string) {
	t.Helper()
	return client.Register(t, email, "password123", "Admin", orgName)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t)
	n := tenantSeq.Add(1)
	email := fmt.Sprintf("login%d@example.com", n)
	client.Register(t, email, "password123", "Admin", fmt.Sprintf("Login Org %d", n))
	client.ClearToken()

	client.Login(t, email, "password123")
	assert.NotEmpty(t, client.Token)

	resp, err := client.GET("/api/auth/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	client := newTestClientWithoutValidation()
	n := tenantSeq.Add(1)
	email := fmt.Sprintf("victim%d@example.com", n)
	newTestClient(t).Register(t, email, "password123", "Admin", fmt.Sprintf("Victim Org %d", n))

	wrongPassword, err := client.POST("/api/auth/login", map[string]string{
		"email":    email,
		"password": "not-the-password",
	})
	require.NoError(t, err)
	unknownEmail, err := client.POST("/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
	// Identical bodies so the two failure modes cannot be told apart.
	assert.Equal(t, testutil.ReadBody(t, wrongPassword), testutil.ReadBody(t, unknownEmail))
}

func TestMe_RequiresToken(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/api/auth/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_GarbageToken(t *testing.T) {
	client := newTestClientWithoutValidation()
	client.Token = "not-a-jwt"

	resp, err := client.GET("/api/auth/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
