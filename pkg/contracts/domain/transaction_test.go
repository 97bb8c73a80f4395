package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionRevenueAndQuantity(t *testing.T) {
	var tx Transaction
	assert.Zero(t, tx.Revenue())
	assert.Zero(t, tx.Quantity())

	amount, qty := 150.5, 3.0
	tx.SalesAmount = &amount
	tx.OrderQuantity = &qty
	assert.Equal(t, 150.5, tx.Revenue())
	assert.Equal(t, 3.0, tx.Quantity())
}

func TestTransactionHasDates(t *testing.T) {
	now := time.Now()
	assert.False(t, Transaction{OrderDate: &now}.HasDates())
	assert.True(t, Transaction{OrderDate: &now, ShipDate: &now}.HasDates())
}

func TestRFMProfileScoreCode(t *testing.T) {
	p := RFMProfile{RScore: 5, FScore: 4, MScore: 1}
	assert.Equal(t, "541", p.ScoreCode())

	assert.Equal(t, "?11", RFMProfile{RScore: 10, FScore: 1, MScore: 1}.ScoreCode())
}
