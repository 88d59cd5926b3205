// Package eventclient assembles the full client stack: encrypted file
// keystore, token-refreshing HTTP transport, API client, auth service
// and session state machine, configured from the environment. Hosts
// that need finer control can build the packages individually; this is
// the batteries-included entry point.
package eventclient

import (
	"github.com/eventkit/go-event-client/api"
	"github.com/eventkit/go-event-client/auth"
	"github.com/eventkit/go-event-client/biometric"
	"github.com/eventkit/go-event-client/internal/config"
	"github.com/eventkit/go-event-client/keystore"
	"github.com/eventkit/go-event-client/session"
	"github.com/eventkit/go-event-client/transport"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client bundles the assembled stack. Session is the primary surface;
// the lower layers are exposed for hosts that call them directly.
type Client struct {
	Session *session.Session
	Auth    *auth.Service
	API     *api.Client
	Store   keystore.Store
}

type settings struct {
	log     zerolog.Logger
	store   keystore.Store
	confirm auth.ConfirmFunc
}

// Option defines a function type to modify client assembly.
type Option func(*settings)

// WithLogger attaches a logger to every layer of the stack.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithStore replaces the default encrypted file keystore, for hosts
// that bridge to a platform secure store.
func WithStore(store keystore.Store) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithConfirmFunc wires the host UI's confirmation dialog for biometric
// enrollment.
func WithConfirmFunc(confirm auth.ConfirmFunc) Option {
	return func(s *settings) {
		s.confirm = confirm
	}
}

// New builds the client stack from environment configuration. The
// biometric prompt is the one dependency only the host platform can
// provide.
func New(prompt biometric.Prompt, options ...Option) (*Client, error) {
	cfg := config.New()

	s := settings{log: zerolog.Nop()}
	for _, opt := range options {
		opt(&s)
	}

	store := s.store
	if store == nil {
		fileStore, err := keystore.NewFileStore(cfg.GetKeystoreDir(), cfg.GetKeystorePassphrase())
		if err != nil {
			return nil, errors.Wrap(err, "[eventclient.New] keystore")
		}
		store = fileStore
	}

	tc, err := transport.New(cfg.GetBaseURL(), store,
		transport.WithTimeout(cfg.GetRequestTimeout()),
		transport.WithLogger(s.log))
	if err != nil {
		return nil, errors.Wrap(err, "[eventclient.New] transport")
	}

	apiClient, err := api.New(cfg.GetBaseURL(), tc)
	if err != nil {
		return nil, errors.Wrap(err, "[eventclient.New] api")
	}

	authOptions := []auth.Option{auth.WithLogger(s.log)}
	if s.confirm != nil {
		authOptions = append(authOptions, auth.WithConfirmFunc(s.confirm))
	}
	authService, err := auth.NewService(auth.Deps{API: apiClient, Store: store, Prompt: prompt}, authOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "[eventclient.New] auth")
	}

	sess, err := session.New(session.Deps{Auth: authService, API: apiClient}, session.WithLogger(s.log))
	if err != nil {
		return nil, errors.Wrap(err, "[eventclient.New] session")
	}

	return &Client{
		Session: sess,
		Auth:    authService,
		API:     apiClient,
		Store:   store,
	}, nil
}
