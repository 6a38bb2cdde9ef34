package locate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
)

const samplePayload = `{"ticketNumber":"TX-2025-000001","excavator":"ABC Construction","address":"123 Main St, San Antonio, TX","coordinates":{"lat":29.4241,"lng":-98.4936}}`

func TestDecode_Valid(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(samplePayload))
	require.NoError(t, err)
	assert.Equal(t, "TX-2025-000001", p.TicketNumber)
	assert.Equal(t, "ABC Construction", p.Excavator)
	require.NotNil(t, p.Coordinates)
	assert.InDelta(t, 29.4241, *p.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -98.4936, *p.Coordinates.Lng, 1e-9)
	assert.Empty(t, p.ReceivedAt)
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `ticket`},
		{"empty object", `{}`},
		{"missing coordinates", `{"ticketNumber":"T","excavator":"E","address":"A"}`},
		{"missing lng", `{"ticketNumber":"T","excavator":"E","address":"A","coordinates":{"lat":1}}`},
		{"lat out of range", `{"ticketNumber":"T","excavator":"E","address":"A","coordinates":{"lat":91,"lng":0}}`},
		{"lng out of range", `{"ticketNumber":"T","excavator":"E","address":"A","coordinates":{"lat":0,"lng":-181}}`},
		{"wrong type", `{"ticketNumber":7,"excavator":"E","address":"A","coordinates":{"lat":0,"lng":0}}`},
		{"empty ticket", `{"ticketNumber":"","excavator":"E","address":"A","coordinates":{"lat":0,"lng":0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaViolation))
		})
	}
}

func TestDecode_ZeroCoordinatesAreValid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"ticketNumber":"T","excavator":"E","address":"A","coordinates":{"lat":0,"lng":0}}`))
	assert.NoError(t, err)
}

func TestFromTicket(t *testing.T) {
	t.Parallel()

	tk := model.Ticket{
		TicketNumber:     "TX-2025-100001",
		ExcavatorCompany: "Alamo Excavation",
		Address:          "500 Commerce St, San Antonio, TX",
		Location:         geo.NewPoint(-98.49, 29.42),
	}
	p := FromTicket(tk)
	require.NoError(t, p.Validate())
	assert.Equal(t, tk.TicketNumber, p.TicketNumber)
	assert.Equal(t, tk.ExcavatorCompany, p.Excavator)
	assert.InDelta(t, 29.42, *p.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -98.49, *p.Coordinates.Lng, 1e-9)
}

func TestStamp(t *testing.T) {
	t.Parallel()

	var p Payload
	stamp(&p, time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CST", -6*3600)))
	assert.Equal(t, "2025-03-01T18:00:00Z", p.ReceivedAt)
}

func TestSignVerify(t *testing.T) {
	t.Parallel()

	body := []byte(samplePayload)
	sig := Sign("dev_secret", body)
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
	assert.True(t, Verify("dev_secret", body, sig))

	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("dev_secret", append([]byte(" "), body...), sig))
	assert.False(t, Verify("dev_secret", body, ""))
	assert.False(t, Verify("dev_secret", body, sig[len("sha256="):]))
}
