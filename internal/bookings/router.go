package bookings

import "github.com/gin-gonic/gin"

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/quote", controller.Quote)       // POST /api/v1/bookings/quote
		bookings.POST("/checkout", controller.Checkout) // POST /api/v1/bookings/checkout
	}
}

// Route definitions for reference:
//
// PRICE QUOTE
// POST   /api/v1/bookings/quote      - Total for a screen and ticket count
// Request body: { "screen": "A", "tickets": "3" }
//
// CHECKOUT
// POST   /api/v1/bookings/checkout   - Validate card, simulate payment, confirm
// Request body: { "movie_id": 1, "screen": "A", "tickets": 2, "show_date": "2026-10-15",
//                 "payment": { "card_name": "...", "card_number": "...", "cvv": "...", "expiry": "MM/YY" } }
