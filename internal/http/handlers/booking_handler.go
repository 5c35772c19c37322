package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surajdas14/easybus-sub001/internal/cache"
	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/http/middleware"
	"github.com/Surajdas14/easybus-sub001/internal/pdf"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
	"github.com/Surajdas14/easybus-sub001/internal/services"
)

// AvailabilityCache is shared across handlers; wired by the router at
// startup, nil (disabled) until then.
var AvailabilityCache *cache.Availability

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		BookingRepo:       repositories.BookingRepository{},
		SeatRepo:          repositories.SeatRepository{},
		BusRepo:           repositories.BusRepository{},
		Cache:             AvailabilityCache,
		RequestID:         middleware.GetRequestID(c),
		CancelCutoff:      intconfig.Cfg.CancelCutoff,
		AdminCutoffBypass: intconfig.Cfg.AdminCutoffBypass,
	}
}

type passengerInput struct {
	Seat   string `json:"seat"`
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type createBookingRequest struct {
	BusID        int64            `json:"busId" binding:"required"`
	Seats        []string         `json:"seats" binding:"required,min=1"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Date         string           `json:"date" binding:"required"`
	Passengers   []passengerInput `json:"passengers"`
	FareInRupees int64            `json:"fareInRupees"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	passengers := make([]models.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, models.Passenger{
			SeatLabel: p.Seat,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    p.Gender,
		})
	}

	booking, err := bookingService(c).Create(c.Request.Context(), principal, services.CreateBookingInput{
		BusID:        req.BusID,
		Seats:        req.Seats,
		From:         req.From,
		To:           req.To,
		Date:         req.Date,
		Passengers:   passengers,
		FareOverride: req.FareInRupees,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": booking})
}

// GET /api/bookings
func ListBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	bookings, err := bookingService(c).List(principal)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).Get(principal, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /api/bookings/:id/status
func SetBookingStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).SetStatus(c.Request.Context(), principal, id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// DELETE /api/bookings/:id (acts as cancel, cutoff enforced)
func CancelBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).Cancel(c.Request.Context(), principal, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// GET /api/bookings/bus/:busId/date/:date — booked labels for display.
func GetBookedSeats(c *gin.Context) {
	busID, ok := parseID(c, "busId")
	if !ok {
		return
	}
	date := c.Param("date")

	inv := services.InventoryService{
		BusRepo:  repositories.BusRepository{},
		SeatRepo: repositories.SeatRepository{},
		Cache:    AvailabilityCache,
	}
	labels, err := inv.BookedSeats(c.Request.Context(), busID, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookedSeats": labels})
}

// GET /api/bookings/:id/ticket — e-ticket PDF.
func GetBookingTicket(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	svc := bookingService(c)
	booking, err := svc.Get(principal, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	bus, err := svc.BusRepo.GetByID(booking.BusID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdfBytes, filename, err := pdf.Ticket(booking, bus)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not render ticket")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
