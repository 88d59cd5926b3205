package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventkit/go-event-client/api"
	interrors "github.com/eventkit/go-event-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, http.DefaultClient)
	require.NoError(t, err)
	return client
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{
		"user": {"id": 1, "name": "A", "email": "a@b.com"},
		"accessToken": "T1",
		"refreshToken": "R1"
	}`))

	resp, err := client.Login(context.Background(), "a@b.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "1", resp.User.ID)
	require.Equal(t, "A", resp.User.Name)
	require.Equal(t, "T1", resp.AccessToken)
	require.Equal(t, "R1", resp.RefreshToken)
}

func TestLoginRejected(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusUnauthorized, `{}`))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, interrors.ErrInvalidCredentials)
}

func TestLoginEmptyBodyIsRejection(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{}`))

	_, err := client.Login(context.Background(), "a@b.com", "pw1")
	require.ErrorIs(t, err, interrors.ErrInvalidCredentials)
}

func TestProfileUnauthorized(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusUnauthorized, `{}`))

	_, err := client.Profile(context.Background())
	require.ErrorIs(t, err, interrors.ErrUnauthorized)
}

func TestUserEventsNormalizesBothNamingSchemes(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `[
		{"id": 1, "name": "Summit", "startDate": "2026-09-01", "endDate": "2026-09-03", "location": "Hall A"},
		{"id": "2", "nombre": "Congreso", "fecha_inicio": "2026-10-01", "fecha_cierre": "2026-10-02", "lugar": "Sala B"}
	]`))

	events, err := client.UserEvents(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.Equal(t, "1", events[0].ID)
	require.Equal(t, "Summit", events[0].Name)
	require.Equal(t, "2026-09-01", events[0].StartDate)
	require.Equal(t, "Hall A", events[0].Location)

	require.Equal(t, "2", events[1].ID)
	require.Equal(t, "Congreso", events[1].Name)
	require.Equal(t, "2026-10-01", events[1].StartDate)
	require.Equal(t, "2026-10-02", events[1].EndDate)
	require.Equal(t, "Sala B", events[1].Location)
}

func TestUserEventsPrefersEnglishWhenBothPresent(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `[
		{"id": 1, "name": "Summit", "nombre": "Cumbre", "startDate": "2026-09-01", "fecha_inicio": "2001-01-01"}
	]`))

	events, err := client.UserEvents(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Summit", events[0].Name)
	require.Equal(t, "2026-09-01", events[0].StartDate)
}

func TestSpeakersNormalized(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `[
		{"id": 7, "nombre": "Dr. Ruiz", "ponencia": "Apertura", "foto": "https://cdn/x.jpg"}
	]`))

	speakers, err := client.Speakers(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, speakers, 1)
	require.Equal(t, "Dr. Ruiz", speakers[0].Name)
	require.Equal(t, "Apertura", speakers[0].Presentation)
	require.Equal(t, "https://cdn/x.jpg", speakers[0].PhotoURL)
}

func TestHotelTakesFirstEntry(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `[
		{"id": 1, "nombre": "Gran Hotel", "direccion": "Av. Central 1", "telefono": "555", "mapa": "https://maps/x"},
		{"id": 2, "name": "Overflow Hotel"}
	]`))

	hotel, err := client.Hotel(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Gran Hotel", hotel.Name)
	require.Equal(t, "Av. Central 1", hotel.Address)
	require.Equal(t, "555", hotel.Phone)
}

func TestHotelEmptyListIsNotFound(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `[]`))

	_, err := client.Hotel(context.Background(), "1")
	require.ErrorIs(t, err, interrors.ErrNotFound)
}

func TestTransportsUnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{"data": [
		{"id": 1, "tipo": "bus", "origen": "Airport", "destino": "Venue", "hora_salida": "08:30"}
	]}`))

	transports, err := client.Transports(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, transports, 1)
	require.Equal(t, "bus", transports[0].Type)
	require.Equal(t, "Airport", transports[0].Origin)
	require.Equal(t, "08:30", transports[0].DepartureTime)
}

func TestSurveyQuestionsSortedByOrder(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{
		"id": 3,
		"titulo": "Feedback",
		"preguntas": [
			{"id": 2, "pregunta": "Second", "orden": 2},
			{"id": 1, "pregunta": "First", "orden": 1}
		]
	}`))

	survey, err := client.SurveyWithQuestions(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, "Feedback", survey.Title)
	require.Len(t, survey.Questions, 2)
	require.Equal(t, "First", survey.Questions[0].Text)
	require.Equal(t, "Second", survey.Questions[1].Text)
}

func TestServerErrorMapped(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusInternalServerError, `{}`))

	_, err := client.UserEvents(context.Background(), "1")
	require.ErrorIs(t, err, interrors.ErrServer)
}
