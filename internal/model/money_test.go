package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"45000", "45000.00", false},
		{"10.5", "10.50", false},
		{"0.01", "0.01", false},
		{"0", "", true},
		{"-5", "", true},
		{"1.005", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, errors.Is(err, ErrInvalidAmount), "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, FormatAmount(got))
	}
}

func TestValidateAllocation(t *testing.T) {
	assert.NoError(t, ValidateAllocation(decimal.Zero))
	assert.NoError(t, ValidateAllocation(decimal.NewFromInt(80000)))
	assert.ErrorIs(t, ValidateAllocation(decimal.NewFromInt(-1)), ErrInvalidAmount)
}

func TestEntryTypeSigned(t *testing.T) {
	amt := decimal.NewFromInt(100)
	assert.True(t, Debit.Signed(amt).Equal(decimal.NewFromInt(-100)))
	assert.True(t, Credit.Signed(amt).Equal(amt))
	assert.Equal(t, Credit, Debit.Invert())
	assert.Equal(t, Debit, Credit.Invert())
}

func TestValidationErrorIs(t *testing.T) {
	err := ValidationError{Field: "description", Reason: "is required"}
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "description: is required", err.Error())
}

func TestBillStatusValid(t *testing.T) {
	assert.True(t, StatusPaid.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, BillStatus("Draft").Valid())
}
