package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/http/middleware"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
	"github.com/Surajdas14/easybus-sub001/internal/services"
)

func busService(c *gin.Context) services.BusService {
	return services.BusService{
		BusRepo:     repositories.BusRepository{},
		BookingRepo: repositories.BookingRepository{},
		Inventory: services.InventoryService{
			BusRepo:  repositories.BusRepository{},
			SeatRepo: repositories.SeatRepository{},
			Cache:    AvailabilityCache,
		},
		RequestID: middleware.GetRequestID(c),
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

// GET /api/buses/search?source&destination&date
func SearchBuses(c *gin.Context) {
	buses, err := busService(c).Search(
		c.Query("source"),
		c.Query("destination"),
		c.Query("date"),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "buses": buses})
}

// GET /api/buses/:id
func GetBus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bus, seats, err := busService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bus": bus, "seats": seats})
}

type createBusRequest struct {
	Name            string `json:"name" binding:"required"`
	Source          string `json:"source" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
	TravelDate      string `json:"travelDate" binding:"required"`
	DepartureTime   string `json:"departureTime" binding:"required"`
	ArrivalTime     string `json:"arrivalTime"`
	WindowOpenTime  string `json:"windowOpenTime"`
	WindowCloseTime string `json:"windowCloseTime"`
	TotalSeats      int    `json:"totalSeats" binding:"required,min=1"`
	Arrangement     string `json:"arrangement" binding:"required"`
	FirstRowSeats   int    `json:"firstRowSeats" binding:"required,min=1"`
	LastRowSeats    int    `json:"lastRowSeats" binding:"required,min=1"`
	FarePerSeat     int64  `json:"farePerSeat" binding:"required,min=1"`
}

// POST /api/buses (admin)
func CreateBus(c *gin.Context) {
	var req createBusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	bus, err := busService(c).Create(services.CreateBusInput{
		Name:            req.Name,
		Source:          req.Source,
		Destination:     req.Destination,
		TravelDate:      req.TravelDate,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		WindowOpenTime:  req.WindowOpenTime,
		WindowCloseTime: req.WindowCloseTime,
		TotalSeats:      req.TotalSeats,
		Arrangement:     req.Arrangement,
		FirstRowSeats:   req.FirstRowSeats,
		LastRowSeats:    req.LastRowSeats,
		FarePerSeat:     req.FarePerSeat,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "bus": bus})
}

type updateBusRequest struct {
	Name            *string `json:"name"`
	Source          *string `json:"source"`
	Destination     *string `json:"destination"`
	TravelDate      *string `json:"travelDate"`
	DepartureTime   *string `json:"departureTime"`
	ArrivalTime     *string `json:"arrivalTime"`
	WindowOpenTime  *string `json:"windowOpenTime"`
	WindowCloseTime *string `json:"windowCloseTime"`
	FarePerSeat     *int64  `json:"farePerSeat"`
	IsActive        *bool   `json:"isActive"`
}

// PUT /api/buses/:id (admin)
func UpdateBus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateBusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	bus, err := busService(c).Update(id, models.BusUpdate{
		Name:            req.Name,
		Source:          req.Source,
		Destination:     req.Destination,
		TravelDate:      req.TravelDate,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		WindowOpenTime:  req.WindowOpenTime,
		WindowCloseTime: req.WindowCloseTime,
		FarePerSeat:     req.FarePerSeat,
		IsActive:        req.IsActive,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bus": bus})
}

// DELETE /api/buses/:id (admin)
func DeleteBus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := busService(c).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "bus deleted"})
}

// POST /api/buses/:id/regenerate-seats (admin)
func RegenerateBusSeats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	seats, err := busService(c).RegenerateSeats(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "seats": seats})
}
