package biometric

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const initKey = "init"

// DefaultPromptConfig is the fixed configuration used for every unlock
// prompt.
var DefaultPromptConfig = PromptConfig{
	PromptMessage:         "Authenticate to access your account",
	CancelLabel:           "Cancel",
	FallbackLabel:         "Use password",
	DisableDeviceFallback: false,
}

// Authenticator probes device capabilities once per process and performs
// fail-closed biometric checks. It never reports a platform error to the
// caller: a failed probe means "unavailable", a failed prompt means
// "not authenticated".
type Authenticator struct {
	prompt Prompt

	group  singleflight.Group
	lock   sync.RWMutex
	probed bool
	caps   Capabilities
}

func NewAuthenticator(prompt Prompt) (*Authenticator, error) {
	if prompt == nil {
		return nil, errors.New("[NewAuthenticator] prompt is required")
	}
	return &Authenticator{prompt: prompt}, nil
}

// Init probes hardware presence, enrollment and supported modalities.
// The result is memoized for the process lifetime; concurrent callers
// share one in-flight probe. A probe error is treated as "no biometrics".
func (a *Authenticator) Init(ctx context.Context) Capabilities {
	a.lock.RLock()
	if a.probed {
		caps := a.caps
		a.lock.RUnlock()
		return caps
	}
	a.lock.RUnlock()

	result, _, _ := a.group.Do(initKey, func() (interface{}, error) {
		caps, err := a.prompt.Capabilities(ctx)
		if err != nil {
			caps = Capabilities{}
		}
		a.lock.Lock()
		a.probed = true
		a.caps = caps
		a.lock.Unlock()
		return caps, nil
	})
	return result.(Capabilities)
}

// Supported reports whether the device can perform biometric
// authentication at all.
func (a *Authenticator) Supported(ctx context.Context) bool {
	return a.Init(ctx).Available()
}

// Authenticate invokes the prompt once with the default configuration.
// Any platform error is swallowed and reported as failure.
func (a *Authenticator) Authenticate(ctx context.Context) bool {
	if !a.Supported(ctx) {
		return false
	}
	ok, err := a.prompt.Authenticate(ctx, DefaultPromptConfig)
	if err != nil {
		return false
	}
	return ok
}

// ModalityText returns a human-readable list of the available
// verification methods, for UI copy.
func (a *Authenticator) ModalityText(ctx context.Context) string {
	caps := a.Init(ctx)
	if len(caps.Modalities) == 0 {
		return "None"
	}

	names := make([]string, 0, len(caps.Modalities))
	for _, m := range caps.Modalities {
		switch m {
		case ModalityFingerprint:
			names = append(names, "Fingerprint")
		case ModalityFace:
			names = append(names, "Face recognition")
		case ModalityIris:
			names = append(names, "Iris recognition")
		default:
			names = append(names, "Biometric")
		}
	}
	return strings.Join(names, ", ")
}
