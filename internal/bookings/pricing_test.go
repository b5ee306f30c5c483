package bookings

import (
	"math"
	"testing"

	"branchdesk/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func TestParseTickets(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"  12", 12},
		{"+5", 5},
		{"7abc", 7},
		{"2.9", 2},
		{"007", 7},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"- 4", 0},
		{"+", 0},
		{"\t\n8 tickets", 8},
		{"99999999999999999999", math.MaxInt32},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTickets(tt.raw), "ParseTickets(%q)", tt.raw)
	}
}

func TestTotalIsPriceTimesTickets(t *testing.T) {
	screens := []catalog.ScreenClass{
		{Code: "A", Class: "Gold", Price: 500},
		{Code: "B", Class: "Silver", Price: 300},
		{Code: "C", Class: "Iron", Price: 200},
		{Code: "D", Class: "Iron", Price: 200},
	}

	for _, s := range screens {
		for n := 0; n <= 50; n++ {
			assert.Equal(t, s.Price*n, Total(s, n))
		}
		assert.Equal(t, 0, Total(s, -1))
		assert.Equal(t, 0, Total(s, ParseTickets("lots")))
	}
}

func TestTotalSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, Total(catalog.ScreenClass{Price: 500}, math.MaxInt))
}

func TestTicketInputAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		json string
		want int
	}{
		{`"4"`, 4},
		{`4`, 4},
		{`2.5`, 2},
		{`"-1"`, 0},
		{`null`, 0},
		{`"x"`, 0},
	}

	for _, tt := range tests {
		var in TicketInput
		assert.NoError(t, in.UnmarshalJSON([]byte(tt.json)))
		assert.Equal(t, tt.want, in.Count(), tt.json)
	}
}
