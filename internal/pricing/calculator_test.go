package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotal(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		assert.True(t, Total(nil).Equal(decimal.Zero))
	})

	t.Run("single line", func(t *testing.T) {
		got := Total([]Line{{ItemID: "A", Quantity: 2, UnitPrice: price("10.00")}})
		assert.Equal(t, "20.00", got.StringFixed(2))
	})

	t.Run("no float drift", func(t *testing.T) {
		lines := make([]Line, 0, 10)
		for i := 0; i < 10; i++ {
			lines = append(lines, Line{ItemID: "bag", Quantity: 1, UnitPrice: price("0.10")})
		}
		assert.True(t, Total(lines).Equal(price("1.00")))
	})

	t.Run("mixed lines", func(t *testing.T) {
		got := Total([]Line{
			{ItemID: "couch", Quantity: 1, UnitPrice: price("75.00")},
			{ItemID: "chair", Quantity: 4, UnitPrice: price("19.99")},
			{ItemID: "bag", Quantity: 3, UnitPrice: price("10.50")},
		})
		assert.Equal(t, "186.46", got.StringFixed(2))
	})
}

func TestNormalizeQuantity(t *testing.T) {
	intp := func(v int) *int { return &v }

	cases := []struct {
		name string
		in   *int
		want int
		ok   bool
	}{
		{"omitted", nil, 1, true},
		{"zero", intp(0), 1, true},
		{"positive", intp(3), 3, true},
		{"negative", intp(-2), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := NormalizeQuantity(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, n)
		})
	}
}
