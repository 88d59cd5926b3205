package biometric_test

import (
	"context"
	"sync"
	"testing"

	"github.com/eventkit/go-event-client/biometric"
	"github.com/eventkit/go-event-client/biometric/promptfakes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestInitMemoizesProbe(t *testing.T) {
	prompt := promptfakes.NewAvailableFakePrompt()
	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)

	ctx := context.Background()
	require.True(t, authn.Supported(ctx))
	require.True(t, authn.Supported(ctx))
	require.True(t, authn.Supported(ctx))

	require.Equal(t, 1, prompt.CapabilitiesCallCount)
}

func TestInitConcurrentCallersShareOneProbe(t *testing.T) {
	prompt := promptfakes.NewAvailableFakePrompt()
	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			authn.Init(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, 1, prompt.CapabilitiesCallCount)
}

func TestProbeErrorMeansUnavailable(t *testing.T) {
	prompt := promptfakes.NewAvailableFakePrompt()
	prompt.CapsErr = errors.New("hardware query failed")

	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)

	require.False(t, authn.Supported(context.Background()))
}

func TestHardwareWithoutEnrollmentIsUnsupported(t *testing.T) {
	prompt := promptfakes.NewAvailableFakePrompt()
	prompt.Caps.Enrolled = false

	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)

	require.False(t, authn.Supported(context.Background()))
}

func TestAuthenticateFailsClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("platform error", func(t *testing.T) {
		prompt := promptfakes.NewAvailableFakePrompt()
		prompt.AuthErr = errors.New("sensor busy")
		authn, err := biometric.NewAuthenticator(prompt)
		require.NoError(t, err)
		require.False(t, authn.Authenticate(ctx))
	})

	t.Run("user declined", func(t *testing.T) {
		prompt := promptfakes.NewAvailableFakePrompt()
		prompt.AuthResult = false
		authn, err := biometric.NewAuthenticator(prompt)
		require.NoError(t, err)
		require.False(t, authn.Authenticate(ctx))
	})

	t.Run("unsupported device never prompts", func(t *testing.T) {
		prompt := promptfakes.NewAvailableFakePrompt()
		prompt.Caps = biometric.Capabilities{}
		authn, err := biometric.NewAuthenticator(prompt)
		require.NoError(t, err)
		require.False(t, authn.Authenticate(ctx))
		require.Equal(t, 0, prompt.AuthenticateCallCount)
	})
}

func TestAuthenticateUsesDefaultPromptConfig(t *testing.T) {
	prompt := promptfakes.NewAvailableFakePrompt()
	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)

	require.True(t, authn.Authenticate(context.Background()))
	require.Equal(t, biometric.DefaultPromptConfig, prompt.LastPromptConfig)
}

func TestModalityText(t *testing.T) {
	ctx := context.Background()

	prompt := promptfakes.NewAvailableFakePrompt()
	prompt.Caps.Modalities = []biometric.Modality{biometric.ModalityFingerprint, biometric.ModalityFace}
	authn, err := biometric.NewAuthenticator(prompt)
	require.NoError(t, err)
	require.Equal(t, "Fingerprint, Face recognition", authn.ModalityText(ctx))

	none := promptfakes.NewAvailableFakePrompt()
	none.Caps.Modalities = nil
	authn2, err := biometric.NewAuthenticator(none)
	require.NoError(t, err)
	require.Equal(t, "None", authn2.ModalityText(ctx))
}
