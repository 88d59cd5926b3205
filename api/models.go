// Package api provides typed bindings for the event backend's REST
// endpoints. The backend has shipped two generations of field names
// (English and Spanish) across its resources; this package normalizes
// whichever generation a response carries onto the canonical models
// below, so neither naming scheme leaks past the network boundary.
package api

// User is the authenticated identity.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a summary of an event assigned to a user. Dates are kept in
// the server's date format (an opaque "YYYY-MM-DD"-style string).
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Location    string `json:"location"`
}

// AgendaItem is a single scheduled entry of an event's agenda.
type AgendaItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`
	GroupID     string `json:"groupId"`
}

// Speaker presents at an event.
type Speaker struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Presentation string `json:"presentation"`
	Specialty    string `json:"specialty"`
	PhotoURL     string `json:"photoUrl"`
}

// Hotel is the lodging assigned to an event.
type Hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	MapURL   string `json:"mapUrl"`
	PhotoURL string `json:"photoUrl"`
}

// Transport is a scheduled transfer for an event (airplane, bus, train,
// van, boat).
type Transport struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
}

// Restaurant is a dining option attached to an event.
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	MapURL   string `json:"mapUrl"`
	PhotoURL string `json:"photoUrl"`
}

// Survey is a feedback form attached to an event.
type Survey struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []SurveyQuestion `json:"questions,omitempty"`
}

// SurveyQuestion is one question of a survey, ordered by Order.
type SurveyQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Order   int      `json:"order"`
	Options []string `json:"options,omitempty"`
}

// SurveyAnswer is a respondent's answer to one question.
type SurveyAnswer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}
