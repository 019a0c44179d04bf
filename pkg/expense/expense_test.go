package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "regular date", date: "2024-01-05", want: "2024-01"},
		{name: "last day of month", date: "2024-01-31", want: "2024-01"},
		{name: "first day of month", date: "2024-01-01", want: "2024-01"},
		{name: "different month", date: "2024-02-01", want: "2024-02"},
		{name: "short string is returned unchanged", date: "2024", want: "2024"},
		{name: "empty string", date: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthKey(tt.date))
		})
	}
}

func TestCanDeleteCategory(t *testing.T) {
	expenses := []Expense{
		{ID: 1, Label: "Coffee", Amount: decimal.NewFromFloat(3.5), Date: "2024-01-05", CategoryID: 1},
		{ID: 2, Label: "Lunch", Amount: decimal.NewFromInt(12), Date: "2024-01-06", CategoryID: 1},
		{ID: 3, Label: "Bus", Amount: decimal.NewFromInt(2), Date: "2024-01-06", CategoryID: 2},
	}

	t.Run("category with expenses cannot be deleted", func(t *testing.T) {
		assert.False(t, CanDeleteCategory(1, expenses))
		assert.Equal(t, 2, CountForCategory(expenses, 1))
	})

	t.Run("category without expenses can be deleted", func(t *testing.T) {
		assert.True(t, CanDeleteCategory(3, expenses))
		assert.Equal(t, 0, CountForCategory(expenses, 3))
	})

	t.Run("empty collection allows any deletion", func(t *testing.T) {
		assert.True(t, CanDeleteCategory(1, nil))
	})
}
