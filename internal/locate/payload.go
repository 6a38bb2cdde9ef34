// Package locate implements the locate-request ingest boundary: the signed JSON
// payload producers post, the HTTP handler that authenticates and validates it, and a
// client that sends generated tickets to it.
package locate

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/aegis-locate/aegis-seed/internal/model"
)

var (
	// ErrSignatureMismatch means the signature header is missing or does not match the body.
	ErrSignatureMismatch = errors.New("locate: signature mismatch")
	// ErrSchemaViolation means the body is not a valid locate request.
	ErrSchemaViolation = errors.New("locate: schema violation")
)

// Payload is the locate request a producer posts.
type Payload struct {
	TicketNumber string       `json:"ticketNumber" validate:"required"`
	Excavator    string       `json:"excavator" validate:"required"`
	Address      string       `json:"address" validate:"required"`
	Coordinates  *Coordinates `json:"coordinates" validate:"required"`
	ReceivedAt   string       `json:"receivedAt,omitempty"`
}

// Coordinates are WGS84 degrees.
type Coordinates struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// NewCoordinates returns coordinates for lat, lng.
func NewCoordinates(lat, lng float64) *Coordinates {
	return &Coordinates{Lat: &lat, Lng: &lng}
}

var validate = validator.New()

// Validate checks required fields and coordinate ranges.
func (p Payload) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Namespace() + ":" + fe.Tag()
			}
			return eris.Wrapf(ErrSchemaViolation, "locate: invalid fields %s", strings.Join(fields, ", "))
		}
		return eris.Wrap(ErrSchemaViolation, err.Error())
	}
	return nil
}

// Decode parses and validates a request body.
func Decode(body []byte) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&p); err != nil {
		return Payload{}, eris.Wrapf(ErrSchemaViolation, "locate: decode body: %v", err)
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// FromTicket builds the payload a producer would send for a generated ticket.
func FromTicket(t model.Ticket) Payload {
	return Payload{
		TicketNumber: t.TicketNumber,
		Excavator:    t.ExcavatorCompany,
		Address:      t.Address,
		Coordinates:  NewCoordinates(t.Location.Lat(), t.Location.Lng()),
	}
}

func stamp(p *Payload, now time.Time) {
	p.ReceivedAt = now.UTC().Format(time.RFC3339Nano)
}
