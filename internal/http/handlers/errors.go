package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/http/middleware"
)

// RespondDomainError maps domain errors to HTTP responses. Seat conflicts
// additionally enumerate the blocking labels so the caller can re-select.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsSeatConflict(err):
		conflict, _ := domain.AsSeatConflict(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success":            false,
			"message":            conflict.Error(),
			"alreadyBookedSeats": conflict.Seats,
			"request_id":         middleware.GetRequestID(c),
		})
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsCutoff(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsPermission(err):
		RespondError(c, http.StatusForbidden, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[HTTP] request_id=%s internal error: %v", middleware.GetRequestID(c), err)
		RespondError(c, http.StatusInternalServerError, "something went wrong")
	}
}
