package bookings

import (
	"errors"
	"net/http"

	"branchdesk/internal/catalog"
	"branchdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Quote handles POST /api/v1/bookings/quote
func (c *Controller) Quote(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	quote, err := c.service.Quote(req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Quote calculated successfully", quote)
}

// Checkout handles POST /api/v1/bookings/checkout. The call blocks for the
// simulated payment delay.
func (c *Controller) Checkout(ctx *gin.Context) {
	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.Checkout(ctx.Request.Context(), ctx.ClientIP(), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, booking.Message, booking)
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		response.Error(ctx, http.StatusBadRequest, verr.Error(), verr.Fields)
	case errors.Is(err, catalog.ErrMovieNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrUnknownScreen),
		errors.Is(err, ErrNoTickets),
		errors.Is(err, ErrInvalidShowDate),
		errors.Is(err, ErrShowDateOutOfRange):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrPaymentInProgress):
		response.Error(ctx, http.StatusConflict, err.Error(), nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process booking", err.Error())
	}
}
