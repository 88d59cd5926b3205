// Package auth owns the credential lifecycle: it is the only component
// permitted to read or write the secure keystore and to invoke the
// biometric prompt. It brokers between UI-level session actions and
// both local security state and the remote identity API.
//
// Every public method returns a structured result or a boolean; no
// platform or network error escapes to the caller. Local storage reads
// are fail-closed: unreadable storage means "not enabled" / "no
// credentials".
package auth

import (
	"context"
	"time"

	"github.com/eventkit/go-event-client/api"
	"github.com/eventkit/go-event-client/biometric"
	"github.com/eventkit/go-event-client/keystore"
	"github.com/eventkit/go-event-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ConfirmFunc asks the user a yes/no question (a dialog in the host
// UI). Used during interactive biometric enrollment.
type ConfirmFunc func(ctx context.Context, title, message string) bool

// Deps holds all external dependencies of the Service.
type Deps struct {
	API    *api.Client    // Remote identity and event API
	Store  keystore.Store // Secure credential store
	Prompt biometric.Prompt
}

// Service implements the authentication lifecycle.
type Service struct {
	api     *api.Client
	store   keystore.Store
	bio     *biometric.Authenticator
	confirm ConfirmFunc
	log     zerolog.Logger
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithConfirmFunc wires the host UI's confirmation dialog. Without it,
// interactive enrollment proceeds as if the user always confirms.
func WithConfirmFunc(confirm ConfirmFunc) Option {
	return func(s *Service) {
		s.confirm = confirm
	}
}

// WithLogger attaches a logger; the default service is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(deps Deps, options ...Option) (*Service, error) {
	if deps.API == nil {
		return nil, errors.New("[NewService] API client is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewService] Store is required")
	}
	if deps.Prompt == nil {
		return nil, errors.New("[NewService] Prompt is required")
	}

	bio, err := biometric.NewAuthenticator(deps.Prompt)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService]")
	}

	service := &Service{
		api:     deps.API,
		store:   deps.Store,
		bio:     bio,
		confirm: func(context.Context, string, string) bool { return true },
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// LoginResult is the normalized outcome of any login attempt.
type LoginResult struct {
	Success      bool
	User         *api.User
	AccessToken  string
	RefreshToken string
	Error        string // User-facing message, set when Success is false
}

// LoginOptions aggregates the state the UI needs to decide which login
// affordances to show. CanUseBiometric is the single authoritative
// gate for the biometric-login control.
type LoginOptions struct {
	BiometricSupported bool
	BiometricEnabled   bool
	HasCredentials     bool
	CanUseBiometric    bool
}

// InitializeBiometrics probes device hardware presence, enrollment
// status and supported modalities. Memoized for the process lifetime;
// never fails the caller.
func (s *Service) InitializeBiometrics(ctx context.Context) biometric.Capabilities {
	return s.bio.Init(ctx)
}

// IsBiometricSupported reports whether the device can perform biometric
// authentication.
func (s *Service) IsBiometricSupported(ctx context.Context) bool {
	return s.bio.Supported(ctx)
}

// IsBiometricEnabled reads the persisted enablement flag. Read failures
// report false.
func (s *Service) IsBiometricEnabled() bool {
	enabled, err := s.store.Get(keystore.KeyBiometricEnabled)
	if err != nil {
		return false
	}
	return enabled == "true"
}

// SetBiometricEnabled persists the enablement flag.
func (s *Service) SetBiometricEnabled(enabled bool) bool {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.store.Set(keystore.KeyBiometricEnabled, value); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist biometric flag")
		return false
	}
	return true
}

// AuthenticateWithBiometrics invokes the prompt once. Fail-closed: any
// platform error reports as failure, never success.
func (s *Service) AuthenticateWithBiometrics(ctx context.Context) bool {
	return s.bio.Authenticate(ctx)
}

// BiometricTypeText returns UI copy describing the available
// verification methods.
func (s *Service) BiometricTypeText(ctx context.Context) string {
	return s.bio.ModalityText(ctx)
}

// SaveCredentials persists the login pair for later biometric replay.
func (s *Service) SaveCredentials(email, password string) bool {
	if err := keystore.SaveCredentials(s.store, keystore.Credentials{Email: email, Password: password}); err != nil {
		s.log.Warn().Err(err).Msg("failed to save credentials")
		return false
	}
	return true
}

// SavedCredentials loads the saved login pair, or nil when none exist
// or storage is unreadable.
func (s *Service) SavedCredentials() *keystore.Credentials {
	creds, err := keystore.SavedCredentials(s.store)
	if err != nil {
		return nil
	}
	return creds
}

// RemoveSavedCredentials erases the saved login pair and clears the
// enablement flag with it: biometric login without credentials is a
// dead end, so the two are deliberately coupled here.
func (s *Service) RemoveSavedCredentials() bool {
	if err := s.store.Delete(keystore.KeyUserCredentials); err != nil {
		return false
	}
	if err := s.store.Delete(keystore.KeyBiometricEnabled); err != nil {
		return false
	}
	return true
}

// LoginWithCredentials performs a credential login against the backend
// and persists the issued token pair. When saveCredentials is set, the
// pair is stored for biometric replay; a failure to store it does not
// fail the login.
func (s *Service) LoginWithCredentials(ctx context.Context, email, password string, saveCredentials bool) LoginResult {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, InvalidCredentialsErr) {
			return LoginResult{Success: false, Error: MsgInvalidCredentials}
		}
		s.log.Warn().Err(err).Msg("login request failed")
		return LoginResult{Success: false, Error: MsgConnectionError}
	}

	pair := keystore.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := keystore.SaveTokenPair(s.store, resp.User.ID, pair); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session tokens")
		return LoginResult{Success: false, Error: MsgSessionPersistFailed}
	}

	if saveCredentials {
		if !s.SaveCredentials(email, password) {
			s.log.Warn().Msg("credentials not saved, biometric replay unavailable")
		}
	}

	user := resp.User
	return LoginResult{
		Success:      true,
		User:         &user,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
}

// LoginWithBiometrics replays the saved credentials after a successful
// biometric check. Each step short-circuits; no partial state is
// committed.
func (s *Service) LoginWithBiometrics(ctx context.Context) LoginResult {
	if !s.IsBiometricEnabled() {
		return LoginResult{Success: false, Error: MsgBiometricNotEnabled}
	}
	if !s.AuthenticateWithBiometrics(ctx) {
		return LoginResult{Success: false, Error: MsgBiometricFailed}
	}
	creds := s.SavedCredentials()
	if creds == nil {
		return LoginResult{Success: false, Error: MsgNoSavedCredentials}
	}
	return s.LoginWithCredentials(ctx, creds.Email, creds.Password, false)
}

// SetupBiometricAuthentication runs the interactive enrollment: support
// check, user confirmation, one biometric authentication as proof of
// physical presence, then persists credentials and sets the flag. A
// decline is not an error, just false.
func (s *Service) SetupBiometricAuthentication(ctx context.Context, email, password string) bool {
	if !s.IsBiometricSupported(ctx) {
		s.log.Debug().Msg("biometric setup requested on unsupported device")
		return false
	}
	if !s.confirm(ctx, "Enable biometric authentication",
		"Do you want to enable biometric authentication for future logins?") {
		return false
	}
	if !s.AuthenticateWithBiometrics(ctx) {
		return false
	}
	if !s.SaveCredentials(email, password) {
		return false
	}
	return s.SetBiometricEnabled(true)
}

// EnableBiometricWithPassword enables biometric login by verifying the
// password against the backend with a real login call. The password is
// never checked client-side.
func (s *Service) EnableBiometricWithPassword(ctx context.Context, email, password string) bool {
	result := s.LoginWithCredentials(ctx, email, password, false)
	if !result.Success {
		return false
	}
	if !s.SaveCredentials(email, password) {
		return false
	}
	return s.SetBiometricEnabled(true)
}

// PerformLogout notifies the backend (best-effort) and unconditionally
// clears the local token pair.
func (s *Service) PerformLogout(ctx context.Context) bool {
	refreshToken, err := s.store.Get(keystore.KeyRefreshToken)
	if err == nil && refreshToken != "" {
		if err := s.api.Logout(ctx, refreshToken); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}
	if err := keystore.ClearTokens(s.store); err != nil {
		s.log.Error().Err(err).Msg("failed to clear local session")
		return false
	}
	return true
}

// HasActiveSession reports whether a persisted access token exists and
// still authorizes a profile fetch. A stale or invalid token yields
// false without error. When the stored token is a JWT that has expired
// and no refresh token is present, the network round-trip is skipped.
func (s *Service) HasActiveSession(ctx context.Context) bool {
	accessToken, err := s.store.Get(keystore.KeyAccessToken)
	if err != nil || accessToken == "" {
		return false
	}

	if claims, ok := token.Peek(accessToken); ok && claims.Expired(s.nowTime()) {
		refreshToken, err := s.store.Get(keystore.KeyRefreshToken)
		if err != nil || refreshToken == "" {
			return false
		}
	}

	profile, err := s.api.Profile(ctx)
	return err == nil && profile != nil
}

// DisableBiometric clears the enablement flag only. Saved credentials
// are intentionally retained so the user can re-enable without
// re-entering the password; RemoveSavedCredentials is the path that
// erases both.
func (s *Service) DisableBiometric() bool {
	return s.SetBiometricEnabled(false)
}

// AvailableLoginOptions aggregates the biometric gate inputs.
func (s *Service) AvailableLoginOptions(ctx context.Context) LoginOptions {
	supported := s.IsBiometricSupported(ctx)
	enabled := s.IsBiometricEnabled()
	hasCredentials := s.SavedCredentials() != nil

	return LoginOptions{
		BiometricSupported: supported,
		BiometricEnabled:   enabled,
		HasCredentials:     hasCredentials,
		CanUseBiometric:    supported && enabled && hasCredentials,
	}
}
