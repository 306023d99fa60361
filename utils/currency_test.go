package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "Total: 0.00 credits", FormatTotal(decimal.Zero))
	assert.Equal(t, "Total: 15.00 credits", FormatTotal(decimal.NewFromInt(15)))
	assert.Equal(t, "Total: 2.50 credits", FormatTotal(decimal.RequireFromString("2.5")))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "5", want: "5.00"},
		{name: "two places", in: "4.25", want: "4.25"},
		{name: "trailing zeros", in: "3.500", want: "3.50"},
		{name: "spaces", in: " 7.1 ", want: "7.10"},
		{name: "empty", in: "", wantErr: true},
		{name: "not a number", in: "five", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "three places", in: "1.005", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FormatMoney(got))
		})
	}
}
