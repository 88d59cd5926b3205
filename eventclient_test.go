package eventclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	eventclient "github.com/eventkit/go-event-client"
	"github.com/eventkit/go-event-client/biometric/promptfakes"
	"github.com/eventkit/go-event-client/keystore"
	"github.com/eventkit/go-event-client/session"
	"github.com/stretchr/testify/require"
)

func TestAssembledStackLoginRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /event-user/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]any{"id": 1, "name": "A", "email": "a@b.com"},
			"accessToken":  "T1",
			"refreshToken": "R1",
		})
	})
	mux.HandleFunc("GET /event/user/1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 3, "name": "DevConf"}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("BASE_URL", server.URL)
	t.Setenv("KEYSTORE_DIR", t.TempDir())
	t.Setenv("KEYSTORE_PASSPHRASE", "test-passphrase")

	client, err := eventclient.New(promptfakes.NewAvailableFakePrompt())
	require.NoError(t, err)

	result := client.Session.Login(context.Background(), "a@b.com", "pw", false)
	require.True(t, result.Success)

	snap := client.Session.Snapshot()
	require.Equal(t, session.StateAuthenticated, snap.State)
	require.Len(t, snap.Events, 1)
	require.Equal(t, "DevConf", snap.Events[0].Name)

	// Tokens landed in the encrypted file store.
	access, err := client.Store.Get(keystore.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "T1", access)
}

func TestNewRequiresUsableKeystoreDir(t *testing.T) {
	t.Setenv("KEYSTORE_DIR", "/dev/null/not-a-dir")
	t.Setenv("KEYSTORE_PASSPHRASE", "test-passphrase")

	_, err := eventclient.New(promptfakes.NewAvailableFakePrompt())
	require.Error(t, err)
}
