package api

import (
	"encoding/json"
	"sort"
)

// Wire types carry both backend naming generations side by side; the
// fromWire adapters collapse them onto the canonical models. When a
// response carries both names for a field, the English one wins (it is
// the newer generation).

type userWire struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Nombre string      `json:"nombre"`
	Email  string      `json:"email"`
	Correo string      `json:"correo"`
}

func (w userWire) normalize() User {
	return User{
		ID:    w.ID.String(),
		Name:  pick(w.Name, w.Nombre),
		Email: pick(w.Email, w.Correo),
	}
}

type eventWire struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Nombre      string      `json:"nombre"`
	Description string      `json:"description"`
	Descripcion string      `json:"descripcion"`
	StartDate   string      `json:"startDate"`
	FechaInicio string      `json:"fecha_inicio"`
	EndDate     string      `json:"endDate"`
	FechaCierre string      `json:"fecha_cierre"`
	Location    string      `json:"location"`
	Lugar       string      `json:"lugar"`
}

func (w eventWire) normalize() Event {
	return Event{
		ID:          w.ID.String(),
		Name:        pick(w.Name, w.Nombre),
		Description: pick(w.Description, w.Descripcion),
		StartDate:   pick(w.StartDate, w.FechaInicio),
		EndDate:     pick(w.EndDate, w.FechaCierre),
		Location:    pick(w.Location, w.Lugar),
	}
}

type agendaItemWire struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Titulo      string      `json:"titulo"`
	Description string      `json:"description"`
	Descripcion string      `json:"descripcion"`
	Date        string      `json:"date"`
	Fecha       string      `json:"fecha"`
	StartTime   string      `json:"startTime"`
	HoraInicio  string      `json:"hora_inicio"`
	EndTime     string      `json:"endTime"`
	HoraFin     string      `json:"hora_fin"`
	Location    string      `json:"location"`
	Lugar       string      `json:"lugar"`
	GroupID     json.Number `json:"groupId"`
	Grupo       json.Number `json:"grupo"`
}

func (w agendaItemWire) normalize() AgendaItem {
	return AgendaItem{
		ID:          w.ID.String(),
		Title:       pick(w.Title, w.Titulo),
		Description: pick(w.Description, w.Descripcion),
		Date:        pick(w.Date, w.Fecha),
		StartTime:   pick(w.StartTime, w.HoraInicio),
		EndTime:     pick(w.EndTime, w.HoraFin),
		Location:    pick(w.Location, w.Lugar),
		GroupID:     pickNumber(w.GroupID, w.Grupo),
	}
}

type speakerWire struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	Nombre       string      `json:"nombre"`
	Presentation string      `json:"presentation"`
	Ponencia     string      `json:"ponencia"`
	Specialty    string      `json:"specialty"`
	Especialidad string      `json:"especialidad"`
	PhotoURL     string      `json:"photoUrl"`
	Foto         string      `json:"foto"`
}

func (w speakerWire) normalize() Speaker {
	return Speaker{
		ID:           w.ID.String(),
		Name:         pick(w.Name, w.Nombre),
		Presentation: pick(w.Presentation, w.Ponencia),
		Specialty:    pick(w.Specialty, w.Especialidad),
		PhotoURL:     pick(w.PhotoURL, w.Foto),
	}
}

type hotelWire struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"name"`
	Nombre    string      `json:"nombre"`
	Address   string      `json:"address"`
	Direccion string      `json:"direccion"`
	Phone     string      `json:"phone"`
	Telefono  string      `json:"telefono"`
	MapURL    string      `json:"mapUrl"`
	Mapa      string      `json:"mapa"`
	PhotoURL  string      `json:"photoUrl"`
	Foto      string      `json:"foto"`
}

func (w hotelWire) normalize() Hotel {
	return Hotel{
		ID:       w.ID.String(),
		Name:     pick(w.Name, w.Nombre),
		Address:  pick(w.Address, w.Direccion),
		Phone:    pick(w.Phone, w.Telefono),
		MapURL:   pick(w.MapURL, w.Mapa),
		PhotoURL: pick(w.PhotoURL, w.Foto),
	}
}

type transportWire struct {
	ID          json.Number `json:"id"`
	Type        string      `json:"type"`
	Tipo        string      `json:"tipo"`
	Description string      `json:"description"`
	Descripcion string      `json:"descripcion"`
	Origin      string      `json:"origin"`
	Origen      string      `json:"origen"`
	Destination string      `json:"destination"`
	Destino     string      `json:"destino"`
	Departure   string      `json:"departureTime"`
	HoraSalida  string      `json:"hora_salida"`
}

func (w transportWire) normalize() Transport {
	return Transport{
		ID:            w.ID.String(),
		Type:          pick(w.Type, w.Tipo),
		Description:   pick(w.Description, w.Descripcion),
		Origin:        pick(w.Origin, w.Origen),
		Destination:   pick(w.Destination, w.Destino),
		DepartureTime: pick(w.Departure, w.HoraSalida),
	}
}

type restaurantWire struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"name"`
	Nombre    string      `json:"nombre"`
	Address   string      `json:"address"`
	Direccion string      `json:"direccion"`
	Phone     string      `json:"phone"`
	Telefono  string      `json:"telefono"`
	MapURL    string      `json:"mapUrl"`
	Mapa      string      `json:"mapa"`
	PhotoURL  string      `json:"photoUrl"`
	Foto      string      `json:"foto"`
}

func (w restaurantWire) normalize() Restaurant {
	return Restaurant{
		ID:       w.ID.String(),
		Name:     pick(w.Name, w.Nombre),
		Address:  pick(w.Address, w.Direccion),
		Phone:    pick(w.Phone, w.Telefono),
		MapURL:   pick(w.MapURL, w.Mapa),
		PhotoURL: pick(w.PhotoURL, w.Foto),
	}
}

type surveyWire struct {
	ID          json.Number          `json:"id"`
	Title       string               `json:"title"`
	Titulo      string               `json:"titulo"`
	Description string               `json:"description"`
	Descripcion string               `json:"descripcion"`
	Questions   []surveyQuestionWire `json:"questions"`
	Preguntas   []surveyQuestionWire `json:"preguntas"`
}

func (w surveyWire) normalize() Survey {
	questionWires := w.Questions
	if len(questionWires) == 0 {
		questionWires = w.Preguntas
	}
	questions := make([]SurveyQuestion, 0, len(questionWires))
	for _, q := range questionWires {
		questions = append(questions, q.normalize())
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	return Survey{
		ID:          w.ID.String(),
		Title:       pick(w.Title, w.Titulo),
		Description: pick(w.Description, w.Descripcion),
		Questions:   questions,
	}
}

type surveyQuestionWire struct {
	ID       json.Number `json:"id"`
	Text     string      `json:"text"`
	Pregunta string      `json:"pregunta"`
	Type     string      `json:"type"`
	Tipo     string      `json:"tipo"`
	Order    int         `json:"order"`
	Orden    int         `json:"orden"`
	Options  []string    `json:"options"`
	Opciones []string    `json:"opciones"`
}

func (w surveyQuestionWire) normalize() SurveyQuestion {
	options := w.Options
	if len(options) == 0 {
		options = w.Opciones
	}
	order := w.Order
	if order == 0 {
		order = w.Orden
	}
	return SurveyQuestion{
		ID:      w.ID.String(),
		Text:    pick(w.Text, w.Pregunta),
		Type:    pick(w.Type, w.Tipo),
		Order:   order,
		Options: options,
	}
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickNumber(values ...json.Number) string {
	for _, v := range values {
		if v.String() != "" {
			return v.String()
		}
	}
	return ""
}
