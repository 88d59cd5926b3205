package promptfakes

import (
	"context"
	"sync"

	"github.com/eventkit/go-event-client/biometric"
)

var _ biometric.Prompt = (*FakePrompt)(nil)

// FakePrompt is a scriptable biometric bridge for tests.
type FakePrompt struct {
	Caps    biometric.Capabilities
	CapsErr error

	AuthResult bool
	AuthErr    error

	lock                  sync.Mutex
	CapabilitiesCallCount int
	AuthenticateCallCount int
	LastPromptConfig      biometric.PromptConfig
}

// NewAvailableFakePrompt returns a prompt for a device with enrolled
// fingerprint hardware that approves every authentication.
func NewAvailableFakePrompt() *FakePrompt {
	return &FakePrompt{
		Caps: biometric.Capabilities{
			HasHardware: true,
			Enrolled:    true,
			Modalities:  []biometric.Modality{biometric.ModalityFingerprint},
		},
		AuthResult: true,
	}
}

func (fp *FakePrompt) Capabilities(ctx context.Context) (biometric.Capabilities, error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()

	fp.CapabilitiesCallCount++
	if fp.CapsErr != nil {
		return biometric.Capabilities{}, fp.CapsErr
	}
	return fp.Caps, nil
}

func (fp *FakePrompt) Authenticate(ctx context.Context, cfg biometric.PromptConfig) (bool, error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()

	fp.AuthenticateCallCount++
	fp.LastPromptConfig = cfg
	if fp.AuthErr != nil {
		return false, fp.AuthErr
	}
	return fp.AuthResult, nil
}
