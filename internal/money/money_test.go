package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/money"
)

func TestQuantizeRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"16.875", "16.88"},
		{"16.874", "16.87"},
		{"16.885", "16.89"},
		{"2.675", "2.68"},
		{"0.005", "0.01"},
		{"0.004", "0.00"},
		{"-16.875", "-16.88"},
		{"100.00", "100.00"},
		{"0.125", "0.13"},
	}
	for _, tc := range cases {
		got := money.MustParse(tc.in).Quantize()
		if got.String() != tc.want {
			t.Fatalf("quantize %s: got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestMulRateQuantizesImmediately(t *testing.T) {
	rate := decimal.RequireFromString("0.15")
	got := money.MustParse("112.50").MulRate(rate)
	require.Equal(t, "16.88", got.String())

	// 33.33 * 5% = 1.6665 -> 1.67
	got = money.MustParse("33.33").MulRate(decimal.RequireFromString("0.05"))
	require.Equal(t, "1.67", got.String())
}

func TestArithmetic(t *testing.T) {
	a := money.MustParse("10.50")
	b := money.MustParse("0.25")
	require.Equal(t, "10.75", a.Add(b).String())
	require.Equal(t, "10.25", a.Sub(b).String())
	require.Equal(t, "31.50", a.MulInt(3).String())
	require.True(t, a.GreaterThan(b))
	require.True(t, b.LessThanOrEqual(a))
	require.True(t, money.Zero.IsZero())
	require.False(t, money.Zero.IsPositive())
}

func TestJSONRoundTrip(t *testing.T) {
	m := money.MustParse("16.875").Quantize()
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, "16.88", string(raw))

	var fromNumber money.Money
	require.NoError(t, json.Unmarshal([]byte("99.9"), &fromNumber))
	require.Equal(t, "99.90", fromNumber.String())

	var fromString money.Money
	require.NoError(t, json.Unmarshal([]byte(`"25.00"`), &fromString))
	require.True(t, fromString.Equal(money.MustParse("25")))

	var bad money.Money
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestZeroValueIsUsable(t *testing.T) {
	var m money.Money
	require.Equal(t, "0.00", m.String())
	require.Equal(t, "1.00", m.Add(money.MustParse("1")).String())
}
