package budget

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/model"
)

func TestSetTotal(t *testing.T) {
	a := NewAllocator(decimal.NewFromInt(500000))
	require.NoError(t, a.SetTotal(decimal.NewFromInt(100000)))
	assert.True(t, a.Total().Equal(decimal.NewFromInt(100000)))

	assert.ErrorIs(t, a.SetTotal(decimal.Zero), model.ErrInvalidAmount)
	assert.ErrorIs(t, a.SetTotal(decimal.NewFromInt(-5)), model.ErrInvalidAmount)
	assert.True(t, a.Total().Equal(decimal.NewFromInt(100000)), "failed set leaves total unchanged")
}

func TestSetTotal_DoesNotRescaleDepartments(t *testing.T) {
	a := NewAllocator(decimal.NewFromInt(500000))
	require.NoError(t, a.SetDepartmentBudget("Technical Bills", decimal.NewFromInt(200000)))
	require.NoError(t, a.SetTotal(decimal.NewFromInt(100000)))
	assert.True(t, a.Get("Technical Bills").Equal(decimal.NewFromInt(200000)))
}

func TestSetDepartmentBudget(t *testing.T) {
	a := NewAllocator(decimal.NewFromInt(1000))
	require.NoError(t, a.SetDepartmentBudget("Marketing Bills", decimal.NewFromInt(80000)))
	require.NoError(t, a.SetDepartmentBudget("Political Bills", decimal.Zero))
	assert.True(t, a.Get("Marketing Bills").Equal(decimal.NewFromInt(80000)))
	assert.True(t, a.Get("Political Bills").IsZero())

	assert.ErrorIs(t, a.SetDepartmentBudget("Marketing Bills", decimal.NewFromInt(-1)), model.ErrInvalidAmount)
	assert.ErrorIs(t, a.SetDepartmentBudget(" ", decimal.NewFromInt(1)), model.ErrValidation)
}

func TestGet_Unset(t *testing.T) {
	a := NewAllocator(decimal.NewFromInt(1000))
	assert.True(t, a.Get("Nope").IsZero())
}

func TestEnsure(t *testing.T) {
	a := NewAllocator(decimal.NewFromInt(1000))
	require.NoError(t, a.SetDepartmentBudget("Salary Bills", decimal.NewFromInt(150000)))
	a.Ensure("Salary Bills")
	a.Ensure("Travel Bills")
	assert.True(t, a.Get("Salary Bills").Equal(decimal.NewFromInt(150000)))

	all := a.All()
	assert.Len(t, all, 2)
	all["Salary Bills"] = decimal.Zero
	assert.True(t, a.Get("Salary Bills").Equal(decimal.NewFromInt(150000)), "All returns a copy")
}
