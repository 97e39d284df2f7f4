package reqctx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/utils"
)

const secret = "test-secret"

func request(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/tickets", nil)
}

func TestNewWithoutCredential(t *testing.T) {
	c := New(request(t), secret)
	assert.NotEqual(t, uuid.Nil, c.ReqID)

	_, aerr := c.UserID()
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindAuthFailNoCredential, aerr.Kind)
}

func TestNewWithCookieCredential(t *testing.T) {
	tok, err := utils.SignJWT(secret, "alice", time.Hour)
	require.NoError(t, err)

	r := request(t)
	r.AddCookie(&http.Cookie{Name: "session", Value: tok})

	uid, aerr := New(r, secret).UserID()
	require.Nil(t, aerr)
	assert.Equal(t, "alice", uid)
}

func TestNewWithBearerCredential(t *testing.T) {
	tok, err := utils.SignJWT(secret, "bob", time.Hour)
	require.NoError(t, err)

	r := request(t)
	r.Header.Set("Authorization", "Bearer "+tok)

	uid, aerr := New(r, secret).UserID()
	require.Nil(t, aerr)
	assert.Equal(t, "bob", uid)
}

// An invalid credential does not fail context construction; the typed error
// surfaces only when the identity is actually needed.
func TestInvalidCredentialFailsLazily(t *testing.T) {
	r := request(t)
	r.AddCookie(&http.Cookie{Name: "session", Value: "not-a-jwt"})

	c := New(r, secret)
	assert.NotEqual(t, uuid.Nil, c.ReqID, "correlation id assigned regardless")

	_, aerr := c.UserID()
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindAuthFailCredentialInvalid, aerr.Kind)
	assert.NotEmpty(t, aerr.Source)
}

func TestExpiredCredential(t *testing.T) {
	tok, err := utils.SignJWT(secret, "alice", -time.Minute)
	require.NoError(t, err)

	r := request(t)
	r.AddCookie(&http.Cookie{Name: "session", Value: tok})

	_, aerr := New(r, secret).UserID()
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindAuthFailCredentialInvalid, aerr.Kind)
}

func TestCorrelationIDsPairwiseDistinct(t *testing.T) {
	const n = 200

	var mu sync.Mutex
	seen := make(map[uuid.UUID]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := New(httptest.NewRequest(http.MethodGet, "/tickets", nil), secret)
			mu.Lock()
			seen[c.ReqID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestContextRoundTrip(t *testing.T) {
	c := NewWithIdentity("alice")
	ctx := WithContext(context.Background(), c)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestFailCarriesReqID(t *testing.T) {
	c := NewWithIdentity("")
	aerr := c.Fail(apierror.NoCredential())
	assert.Equal(t, c.ReqID, aerr.ReqID)
}
