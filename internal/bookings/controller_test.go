package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"branchdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	SetupBookingRoutes(r.Group("/api/v1"), NewController(newTestService(t, &fakeNotifier{})))
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuoteEndpoint(t *testing.T) {
	r := setupBookingRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/bookings/quote", map[string]interface{}{"screen": "A", "tickets": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data QuoteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1500, body.Data.Total)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/quote", map[string]interface{}{"screen": "Q", "tickets": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/quote", map[string]interface{}{"tickets": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	r := setupBookingRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/bookings/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ok struct {
		Data CheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.NotEmpty(t, ok.Data.BookingRef)

	bad := validCheckout()
	bad.Payment.CardNumber = "1234"
	w = doJSON(r, http.MethodPost, "/api/v1/bookings/checkout", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errBody struct {
		Message string                `json:"message"`
		Errors  []response.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "Please enter a valid 16-digit card number", errBody.Message)
	require.Len(t, errBody.Errors, 1)
	assert.Equal(t, "card_number", errBody.Errors[0].Field)

	missing := validCheckout()
	missing.MovieID = 404
	w = doJSON(r, http.MethodPost, "/api/v1/bookings/checkout", missing)
	assert.Equal(t, http.StatusNotFound, w.Code)

	phone := validCheckout()
	phone.Phone = "not-a-phone"
	w = doJSON(r, http.MethodPost, "/api/v1/bookings/checkout", phone)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
