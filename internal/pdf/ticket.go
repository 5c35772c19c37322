// Package pdf renders the e-ticket document for a booking.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
)

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Ticket builds the e-ticket PDF for a booking and returns the bytes plus
// a download filename.
func Ticket(b models.Booking, bus models.Bus) ([]byte, string, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("E-Ticket", false)
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "EASYBUS E-TICKET")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Code  : %s", safe(b.Code, "-")),
		fmt.Sprintf("Status        : %s", strings.ToUpper(safe(b.Status, "-"))),
		fmt.Sprintf("Bus           : %s", safe(bus.Name, "-")),
		fmt.Sprintf("Route         : %s -> %s", safe(b.Source, "-"), safe(b.Destination, "-")),
		fmt.Sprintf("Date / Time   : %s %s", safe(b.TravelDate, "-"), safe(bus.DepartureTime, "-")),
		fmt.Sprintf("Seats         : %s", safe(strings.Join(b.Seats, ", "), "-")),
		fmt.Sprintf("Fare          : Rs %d", b.Fare),
	}
	for _, s := range lines {
		doc.Cell(0, 7, s)
		doc.Ln(7)
	}

	if len(b.Passengers) > 0 {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 12)
		doc.Cell(0, 7, "Passengers")
		doc.Ln(8)
		doc.SetFont("Helvetica", "", 11)
		for _, p := range b.Passengers {
			doc.Cell(0, 6, fmt.Sprintf("Seat %-4s %s (%d, %s)", p.SeatLabel, safe(p.Name, "-"), p.Age, safe(p.Gender, "-")))
			doc.Ln(6)
		}
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 10)
	doc.MultiCell(0, 6, "Please carry a valid ID and show this ticket at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%d.pdf", b.ID)
	return buf.Bytes(), filename, nil
}
