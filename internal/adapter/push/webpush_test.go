package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

func testSubscription(t *testing.T, endpoint string) domain.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return domain.PushSubscription{
		ID:       "sub-1",
		UserID:   "user-1",
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func testSender(t *testing.T) *WebPushSender {
	t.Helper()
	private, public, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewWebPushSender(Config{PublicKey: public, PrivateKey: private, Subject: "mailto:ops@example.org"})
}

func TestWebPushSender_Send(t *testing.T) {
	var gotAuth, gotTTL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTTL = r.Header.Get("TTL")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := testSender(t).Send(context.Background(), testSubscription(t, server.URL), []byte(`{"title":"hi"}`))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotAuth, "vapid "), gotAuth)
	assert.Equal(t, "86400", gotTTL)
}

func TestWebPushSender_GoneSubscription(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		err := testSender(t).Send(context.Background(), testSubscription(t, server.URL), []byte(`{}`))
		server.Close()

		require.ErrorIs(t, err, ports.ErrSubscriptionGone)
	}
}

func TestWebPushSender_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := testSender(t).Send(context.Background(), testSubscription(t, server.URL), []byte(`{}`))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSubscriptionGone)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), domain.PushSubscription{UserID: "u"}, []byte(`{}`)))
}
