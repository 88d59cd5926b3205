// Package biometric wraps the device biometric capability behind a
// narrow interface. The host application supplies the Prompt (the bridge
// to the platform); this package owns capability probing and the
// fail-closed authentication call.
package biometric

import "context"

// Modality is a biometric verification method reported by the device.
type Modality string

const (
	ModalityFingerprint Modality = "fingerprint"
	ModalityFace        Modality = "facial_recognition"
	ModalityIris        Modality = "iris"
)

// Capabilities describes what the device hardware can do and whether the
// user has enrolled.
type Capabilities struct {
	HasHardware bool
	Enrolled    bool
	Modalities  []Modality
}

// Available reports whether biometric authentication can actually be
// performed on this device.
func (c Capabilities) Available() bool {
	return c.HasHardware && c.Enrolled
}

// PromptConfig configures a single biometric prompt invocation.
type PromptConfig struct {
	PromptMessage         string
	CancelLabel           string
	FallbackLabel         string
	DisableDeviceFallback bool
}

// Prompt is the device-level biometric bridge. Authenticate performs a
// single yes/no liveness and identity check; it cannot be scripted or
// retried beyond re-invocation.
type Prompt interface {
	Capabilities(ctx context.Context) (Capabilities, error)
	Authenticate(ctx context.Context, cfg PromptConfig) (bool, error)
}
