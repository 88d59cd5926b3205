package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	interrors "github.com/eventkit/go-event-client/internal/errors"
	"github.com/pkg/errors"
)

// Doer sends a prepared request; satisfied by transport.Client and by
// *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client binds the backend's REST endpoints to typed calls. All methods
// return normalized models; see the package comment for the adapter
// boundary.
type Client struct {
	baseURL string
	doer    Doer
}

func New(baseURL string, doer Doer) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if doer == nil {
		return nil, errors.New("[api.New] doer is required")
	}
	return &Client{baseURL: baseURL, doer: doer}, nil
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	User         User
	AccessToken  string
	RefreshToken string
}

type loginWire struct {
	User         *userWire `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// Login exchanges credentials for a token pair and the user profile.
// Returns ErrInvalidCredentials when the backend rejects the pair.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var wire loginWire
	err := c.postJSON(ctx, "/event-user/login", body, &wire)
	if err != nil {
		if errors.Is(err, interrors.ErrUnauthorized) {
			return nil, interrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Login]")
	}
	if wire.User == nil || wire.AccessToken == "" {
		return nil, interrors.ErrInvalidCredentials
	}
	return &LoginResponse{
		User:         wire.User.normalize(),
		AccessToken:  wire.AccessToken,
		RefreshToken: wire.RefreshToken,
	}, nil
}

// Logout tells the backend to invalidate the refresh token. Best-effort
// by contract: callers treat a failure as non-fatal.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.postJSON(ctx, "/event-user/logout", body, nil); err != nil {
		return errors.Wrap(err, "[Logout]")
	}
	return nil
}

// Profile fetches the authenticated user's profile. A 401 surfaces as
// ErrUnauthorized (or ErrSessionExpired when the transport's refresh
// attempt failed underneath).
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var wire struct {
		User *userWire `json:"user"`
	}
	if err := c.getJSON(ctx, "/event-user/profile", &wire); err != nil {
		return nil, errors.Wrap(err, "[Profile]")
	}
	if wire.User == nil {
		return nil, errors.Wrap(interrors.ErrNotFound, "[Profile] empty profile")
	}
	user := wire.User.normalize()
	return &user, nil
}

// UserEvents returns the ordered sequence of events assigned to a user.
func (c *Client) UserEvents(ctx context.Context, userID string) ([]Event, error) {
	var wires []eventWire
	if err := c.getJSON(ctx, "/event/user/"+url.PathEscape(userID), &wires); err != nil {
		return nil, errors.Wrap(err, "[UserEvents]")
	}
	events := make([]Event, 0, len(wires))
	for _, w := range wires {
		events = append(events, w.normalize())
	}
	return events, nil
}

// Agenda returns the full agenda for an event.
func (c *Client) Agenda(ctx context.Context, eventID string) ([]AgendaItem, error) {
	return c.agenda(ctx, eventID, "")
}

// AgendaForGroup returns the agenda filtered to one attendee group.
func (c *Client) AgendaForGroup(ctx context.Context, eventID, groupID string) ([]AgendaItem, error) {
	return c.agenda(ctx, eventID, groupID)
}

func (c *Client) agenda(ctx context.Context, eventID, groupID string) ([]AgendaItem, error) {
	path := "/agenda/app/" + url.PathEscape(eventID)
	if groupID != "" {
		path += "?group=" + url.QueryEscape(groupID)
	}

	var wires []agendaItemWire
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, errors.Wrap(err, "[Agenda]")
	}
	items := make([]AgendaItem, 0, len(wires))
	for _, w := range wires {
		items = append(items, w.normalize())
	}
	return items, nil
}

// Speakers returns the speakers presenting at an event.
func (c *Client) Speakers(ctx context.Context, eventID string) ([]Speaker, error) {
	var wires []speakerWire
	if err := c.getJSON(ctx, "/speaker/"+url.PathEscape(eventID), &wires); err != nil {
		return nil, errors.Wrap(err, "[Speakers]")
	}
	speakers := make([]Speaker, 0, len(wires))
	for _, w := range wires {
		speakers = append(speakers, w.normalize())
	}
	return speakers, nil
}

// Hotel returns the lodging assigned to an event. The backend answers
// with a list; only the first entry is meaningful.
func (c *Client) Hotel(ctx context.Context, eventID string) (*Hotel, error) {
	var wires []hotelWire
	if err := c.getJSON(ctx, "/hotel/"+url.PathEscape(eventID), &wires); err != nil {
		return nil, errors.Wrap(err, "[Hotel]")
	}
	if len(wires) == 0 {
		return nil, errors.Wrap(interrors.ErrNotFound, "[Hotel]")
	}
	hotel := wires[0].normalize()
	return &hotel, nil
}

// Transports returns the scheduled transfers for an event.
func (c *Client) Transports(ctx context.Context, eventID string) ([]Transport, error) {
	var wire struct {
		Data []transportWire `json:"data"`
	}
	if err := c.getJSON(ctx, "/transportes/evento/"+url.PathEscape(eventID), &wire); err != nil {
		return nil, errors.Wrap(err, "[Transports]")
	}
	transports := make([]Transport, 0, len(wire.Data))
	for _, w := range wire.Data {
		transports = append(transports, w.normalize())
	}
	return transports, nil
}

// Restaurants returns the dining options attached to an event.
func (c *Client) Restaurants(ctx context.Context, eventID string) ([]Restaurant, error) {
	var wire struct {
		Data []restaurantWire `json:"data"`
	}
	if err := c.getJSON(ctx, "/alimentos/evento/"+url.PathEscape(eventID), &wire); err != nil {
		return nil, errors.Wrap(err, "[Restaurants]")
	}
	restaurants := make([]Restaurant, 0, len(wire.Data))
	for _, w := range wire.Data {
		restaurants = append(restaurants, w.normalize())
	}
	return restaurants, nil
}

// SurveysForGroup lists the surveys visible to one attendee group.
func (c *Client) SurveysForGroup(ctx context.Context, eventID, groupID string) ([]Survey, error) {
	path := "/survey/event/" + url.PathEscape(eventID)
	if groupID != "" {
		path += "?group=" + url.QueryEscape(groupID)
	}

	var wires []surveyWire
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, errors.Wrap(err, "[SurveysForGroup]")
	}
	surveys := make([]Survey, 0, len(wires))
	for _, w := range wires {
		surveys = append(surveys, w.normalize())
	}
	return surveys, nil
}

// SurveyWithQuestions fetches one survey including its ordered
// questions.
func (c *Client) SurveyWithQuestions(ctx context.Context, surveyID string) (*Survey, error) {
	var wire surveyWire
	if err := c.getJSON(ctx, "/survey/"+url.PathEscape(surveyID)+"/questions", &wire); err != nil {
		return nil, errors.Wrap(err, "[SurveyWithQuestions]")
	}
	survey := wire.normalize()
	return &survey, nil
}

// SubmitSurveyResponse records one user's answers to a survey.
func (c *Client) SubmitSurveyResponse(ctx context.Context, surveyID, userID string, answers []SurveyAnswer) error {
	body := map[string]any{"userId": userID, "answers": answers}
	if err := c.postJSON(ctx, "/survey/"+url.PathEscape(surveyID)+"/responses", body, nil); err != nil {
		return errors.Wrap(err, "[SubmitSurveyResponse]")
	}
	return nil
}

// SurveyCompleted reports whether the user has already answered the
// survey.
func (c *Client) SurveyCompleted(ctx context.Context, surveyID, userID string) (bool, error) {
	var wire struct {
		Completed bool `json:"completed"`
	}
	path := "/survey/" + url.PathEscape(surveyID) + "/completed/" + url.PathEscape(userID)
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return false, errors.Wrap(err, "[SurveyCompleted]")
	}
	return wire.Completed, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	return c.send(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.doer.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return interrors.ErrUnauthorized
	case code == http.StatusNotFound:
		return interrors.ErrNotFound
	case code >= 500:
		return errors.Wrap(interrors.ErrServer, fmt.Sprintf("status %d", code))
	default:
		return errors.Wrap(interrors.ErrServer, fmt.Sprintf("unexpected status %d", code))
	}
}
