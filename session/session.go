// Package session holds the application-facing session state machine.
// It composes the auth service and the API client into a single
// observable state: who is signed in, which events they can see, and
// whether biometric login is available. All mutations go through
// methods; readers take a Snapshot copy.
package session

import (
	"context"
	"sync"

	"github.com/eventkit/go-event-client/api"
	"github.com/eventkit/go-event-client/auth"
	errs "github.com/eventkit/go-event-client/internal/errors"
	"github.com/eventkit/go-event-client/internal/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNotAuthenticated is returned by operations that require a signed-in
// user when none is present.
var ErrNotAuthenticated = errs.ErrUnauthorized

// State identifies the session lifecycle phase.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot is a point-in-time copy of the session state. Mutating it
// has no effect on the live session.
type Snapshot struct {
	State            State
	User             *api.User
	Events           []api.Event
	BiometricEnabled bool
}

// Deps holds all external dependencies of the Session.
type Deps struct {
	Auth *auth.Service
	API  *api.Client
}

// Session is the mutable state machine. Safe for concurrent use.
type Session struct {
	auth *auth.Service
	api  *api.Client
	log  zerolog.Logger

	lock             sync.Mutex
	state            State
	user             *api.User
	events           []api.Event
	biometricEnabled bool
	eventsSeq        uint64
	closed           bool
}

// Option defines a function type to modify the Session instance.
type Option func(*Session)

// WithLogger attaches a logger; the default session is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New initializes a Session in the Uninitialized state.
func New(deps Deps, options ...Option) (*Session, error) {
	if deps.Auth == nil {
		return nil, errors.New("[session.New] Auth service is required")
	}
	if deps.API == nil {
		return nil, errors.New("[session.New] API client is required")
	}

	session := &Session{
		auth:  deps.Auth,
		api:   deps.API,
		log:   zerolog.Nop(),
		state: StateUninitialized,
	}
	for _, opt := range options {
		opt(session)
	}
	return session, nil
}

// Snapshot returns a copy of the current state. The User pointer and
// Events slice are owned by the caller.
func (s *Session) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	snap := Snapshot{
		State:            s.state,
		BiometricEnabled: s.biometricEnabled,
	}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	if s.events != nil {
		snap.Events = make([]api.Event, len(s.events))
		copy(snap.Events, s.events)
	}
	return snap
}

// Close tears the session down. Every in-flight completion that lands
// after Close is discarded; no state mutates again.
func (s *Session) Close() {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
}

// Start runs the startup sequence: load the biometric flag, probe for a
// persisted session, and either restore the user and their events or
// settle Unauthenticated. A token that the server no longer honors
// forces a local logout rather than leaving a half-authenticated state.
func (s *Session) Start(ctx context.Context) Snapshot {
	s.setState(StateLoading)
	s.setBiometricEnabled(s.auth.IsBiometricEnabled())

	if !s.auth.HasActiveSession(ctx) {
		s.settleUnauthenticated()
		return s.Snapshot()
	}

	profile, err := s.api.Profile(ctx)
	if err != nil || profile == nil {
		s.log.Warn().Err(err).Msg("session looked active but profile fetch failed, forcing logout")
		s.auth.PerformLogout(ctx)
		s.settleUnauthenticated()
		return s.Snapshot()
	}

	s.commitUser(profile)
	s.RefreshEvents(ctx)
	return s.Snapshot()
}

// Login signs in with credentials and, on success, commits the user and
// refreshes their events. Failures leave the session Unauthenticated
// with the user-facing message in the result.
func (s *Session) Login(ctx context.Context, email, password string, saveCredentials bool) auth.LoginResult {
	s.setState(StateLoading)
	result := s.auth.LoginWithCredentials(ctx, email, password, saveCredentials)
	s.commitLogin(ctx, result)
	return result
}

// LoginWithBiometrics signs in by biometric credential replay, with the
// same commit contract as Login.
func (s *Session) LoginWithBiometrics(ctx context.Context) auth.LoginResult {
	s.setState(StateLoading)
	result := s.auth.LoginWithBiometrics(ctx)
	s.commitLogin(ctx, result)
	return result
}

func (s *Session) commitLogin(ctx context.Context, result auth.LoginResult) {
	if !result.Success {
		s.settleUnauthenticated()
		return
	}
	s.commitUser(result.User)
	s.RefreshEvents(ctx)
}

// Logout clears the local session unconditionally; the server call is
// best-effort. The event list and user are gone even when the backend
// rejects the logout.
func (s *Session) Logout(ctx context.Context) bool {
	s.setState(StateLoading)
	ok := s.auth.PerformLogout(ctx)

	s.lock.Lock()
	if !s.closed {
		s.user = nil
		s.events = nil
		s.state = StateUnauthenticated
		s.eventsSeq++ // orphan any in-flight events fetch
	}
	s.lock.Unlock()
	return ok
}

// RefreshEvents re-fetches the signed-in user's events. A no-op without
// a user. Overlapping calls are resolved last-issued-wins: each fetch
// takes a sequence number at issue and commits only if it is still the
// newest at completion.
func (s *Session) RefreshEvents(ctx context.Context) {
	s.lock.Lock()
	userID := utils.Value(s.user).ID
	if s.closed || userID == "" {
		s.lock.Unlock()
		return
	}
	s.eventsSeq++
	seq := s.eventsSeq
	s.lock.Unlock()

	events, err := s.api.UserEvents(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("userId", userID).Msg("events fetch failed")
		if errs.Is(err, errs.ErrSessionExpired) {
			s.settleUnauthenticated()
		}
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed || seq != s.eventsSeq {
		return
	}
	s.events = events
}

// EnableBiometric runs the interactive biometric enrollment and mirrors
// the outcome into the snapshot flag only after it succeeds.
func (s *Session) EnableBiometric(ctx context.Context, email, password string) bool {
	if !s.auth.SetupBiometricAuthentication(ctx, email, password) {
		return false
	}
	s.setBiometricEnabled(true)
	return true
}

// DisableBiometric turns biometric login off, keeping saved credentials
// per the auth service contract.
func (s *Session) DisableBiometric() bool {
	if !s.auth.DisableBiometric() {
		return false
	}
	s.setBiometricEnabled(false)
	return true
}

// Agenda returns the agenda for an event. Stateless read; the snapshot
// is not touched.
func (s *Session) Agenda(ctx context.Context, eventID string) ([]api.AgendaItem, error) {
	return s.api.Agenda(ctx, eventID)
}

// AgendaForGroup returns the agenda filtered to an attendee group.
func (s *Session) AgendaForGroup(ctx context.Context, eventID, groupID string) ([]api.AgendaItem, error) {
	return s.api.AgendaForGroup(ctx, eventID, groupID)
}

// Speakers returns the speaker list for an event.
func (s *Session) Speakers(ctx context.Context, eventID string) ([]api.Speaker, error) {
	return s.api.Speakers(ctx, eventID)
}

// Hotel returns the event's hotel details.
func (s *Session) Hotel(ctx context.Context, eventID string) (*api.Hotel, error) {
	return s.api.Hotel(ctx, eventID)
}

// Transports returns the transport schedule for an event.
func (s *Session) Transports(ctx context.Context, eventID string) ([]api.Transport, error) {
	return s.api.Transports(ctx, eventID)
}

// Restaurants returns the meal venues for an event.
func (s *Session) Restaurants(ctx context.Context, eventID string) ([]api.Restaurant, error) {
	return s.api.Restaurants(ctx, eventID)
}

// SurveysForGroup returns the surveys visible to an attendee group.
func (s *Session) SurveysForGroup(ctx context.Context, eventID, groupID string) ([]api.Survey, error) {
	return s.api.SurveysForGroup(ctx, eventID, groupID)
}

// SurveyWithQuestions returns one survey with its ordered questions.
func (s *Session) SurveyWithQuestions(ctx context.Context, surveyID string) (*api.Survey, error) {
	return s.api.SurveyWithQuestions(ctx, surveyID)
}

// SubmitSurveyResponse submits the signed-in user's answers.
func (s *Session) SubmitSurveyResponse(ctx context.Context, surveyID string, answers []api.SurveyAnswer) error {
	userID := s.currentUserID()
	if userID == "" {
		return errors.Wrap(ErrNotAuthenticated, "[SubmitSurveyResponse]")
	}
	return s.api.SubmitSurveyResponse(ctx, surveyID, userID, answers)
}

// SurveyCompleted reports whether the signed-in user already answered
// the survey.
func (s *Session) SurveyCompleted(ctx context.Context, surveyID string) (bool, error) {
	userID := s.currentUserID()
	if userID == "" {
		return false, errors.Wrap(ErrNotAuthenticated, "[SurveyCompleted]")
	}
	return s.api.SurveyCompleted(ctx, surveyID, userID)
}

func (s *Session) currentUserID() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return utils.Value(s.user).ID
}

func (s *Session) commitUser(user *api.User) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	u := *user
	s.user = &u
	s.state = StateAuthenticated
}

func (s *Session) settleUnauthenticated() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.user = nil
	s.events = nil
	s.state = StateUnauthenticated
}

func (s *Session) setState(state State) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.state = state
}

func (s *Session) setBiometricEnabled(enabled bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.biometricEnabled = enabled
}
