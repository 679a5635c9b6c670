package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusPrevChain(t *testing.T) {
	cases := []struct {
		to   Status
		from Status
		ok   bool
	}{
		{StatusPacked, StatusNew, true},
		{StatusShipped, StatusPacked, true},
		{StatusDelivered, StatusShipped, true},
		{StatusNew, "", false},
		{Status("Lost"), "", false},
	}
	for _, c := range cases {
		from, ok := c.to.Prev()
		assert.Equal(t, c.ok, ok, string(c.to))
		assert.Equal(t, c.from, from, string(c.to))
	}
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCashOnDelivery.Valid())
	assert.True(t, PaymentBankTransfer.Valid())
	assert.False(t, PaymentMethod("").Valid())
	assert.False(t, PaymentMethod("CARD").Valid())
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(-3))
	assert.Equal(t, 1, ClampRating(0))
	assert.Equal(t, 3, ClampRating(3))
	assert.Equal(t, 5, ClampRating(9))
}
