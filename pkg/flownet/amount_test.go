package flownet

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_Arithmetic(t *testing.T) {
	a := NewAmount(5)
	b := NewAmount(3)

	assert.Equal(t, "8", a.Add(b).String())
	assert.Equal(t, "2", a.Sub(b).String())
	assert.Equal(t, "3", a.Min(b).String())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(NewAmount(5)))
}

func TestAmount_ExactDecimals(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float approximation.
	tenth, err := AmountFromString("0.1")
	require.NoError(t, err)
	fifth, err := AmountFromString("0.2")
	require.NoError(t, err)

	sum := tenth.Add(fifth)
	want, _ := AmountFromString("0.3")
	assert.True(t, sum.Equal(want), "0.1 + 0.2 = %s", sum)
}

func TestAmount_Infinity(t *testing.T) {
	five := NewAmount(5)

	assert.True(t, Infinite.IsInfinite())
	assert.False(t, five.IsInfinite())

	assert.Equal(t, 1, Infinite.Cmp(five))
	assert.Equal(t, -1, five.Cmp(Infinite))
	assert.Equal(t, 0, Infinite.Cmp(Infinite))

	assert.True(t, Infinite.Add(five).IsInfinite())
	assert.True(t, Infinite.Sub(five).IsInfinite())
	assert.True(t, five.Sub(Infinite).IsZero())
	assert.Equal(t, "5", Infinite.Min(five).String())
	assert.Equal(t, "Infinity", Infinite.String())
	assert.Equal(t, 1, Infinite.Sign())
}

func TestAmount_ZeroValue(t *testing.T) {
	var a Amount
	assert.True(t, a.IsZero())
	assert.False(t, a.IsInfinite())
	assert.Equal(t, 0, a.Sign())
	assert.Equal(t, "0", a.String())
}

func TestAmountFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"42", "42", false},
		{"3.14", "3.14", false},
		{"-1", "-1", false},
		{"Infinity", "Infinity", false},
		{"not-a-number", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := AmountFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Capacity Amount `json:"capacity"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"capacity": 7.5}`), &p))
	assert.Equal(t, "7.5", p.Capacity.String())

	require.NoError(t, json.Unmarshal([]byte(`{"capacity": "12"}`), &p))
	assert.Equal(t, "12", p.Capacity.String())

	require.NoError(t, json.Unmarshal([]byte(`{"capacity": "Infinity"}`), &p))
	assert.True(t, p.Capacity.IsInfinite())

	out, err := json.Marshal(payload{Capacity: NewAmount(9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"capacity": 9}`, string(out))

	out, err = json.Marshal(payload{Capacity: Infinite})
	require.NoError(t, err)
	assert.JSONEq(t, `{"capacity": "Infinity"}`, string(out))
}

func TestAmountFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("2.25")
	a := AmountFromDecimal(d)
	assert.Equal(t, "2.25", a.String())
	assert.True(t, a.Decimal().Equal(d))
}
