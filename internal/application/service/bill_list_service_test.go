package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/billed/internal/domain/entity"
)

func TestBillListService_Load(t *testing.T) {
	tests := []struct {
		name      string
		bills     []entity.Bill
		listErr   error
		wantError string
		wantDates []string
	}{
		{
			name: "orders bills most recent first",
			bills: []entity.Bill{
				{Type: "Type 1", Name: "Name 1", Date: "2022-01-01", Amount: 100, Status: entity.BillStatusValidated},
				{Type: "Type 2", Name: "Name 2", Date: "2022-01-02", Amount: 150, Status: entity.BillStatusPending},
			},
			wantDates: []string{"2022-01-02", "2022-01-01"},
		},
		{
			name:      "empty list",
			bills:     []entity.Bill{},
			wantDates: []string{},
		},
		{
			name:      "404 from store",
			listErr:   errors.New("Erreur 404"),
			wantError: "Erreur 404",
			wantDates: []string{},
		},
		{
			name:      "500 from store",
			listErr:   errors.New("Erreur 500"),
			wantError: "Erreur 500",
			wantDates: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockBillStore{
				listFunc: func(ctx context.Context) ([]entity.Bill, error) {
					return tt.bills, tt.listErr
				},
			}

			view := NewBillListService(store, &mockLogger{}).Load(context.Background())

			require.NotNil(t, view)
			assert.Equal(t, tt.wantError, view.Error)
			assert.False(t, view.Loading)

			dates := make([]string, 0, len(view.Data))
			for _, b := range view.Data {
				dates = append(dates, b.Date)
			}
			assert.Equal(t, tt.wantDates, dates)
		})
	}
}

func TestBillListService_List(t *testing.T) {
	t.Run("returns sorted bills", func(t *testing.T) {
		store := &mockBillStore{
			listFunc: func(ctx context.Context) ([]entity.Bill, error) {
				return []entity.Bill{{Date: "2021-10-30"}, {Date: "2022-01-01"}, {Date: "2021-12-15"}}, nil
			},
		}

		bills, err := NewBillListService(store, &mockLogger{}).List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "2022-01-01", bills[0].Date)
		assert.Equal(t, "2021-12-15", bills[1].Date)
		assert.Equal(t, "2021-10-30", bills[2].Date)
	})

	t.Run("propagates store error", func(t *testing.T) {
		store := &mockBillStore{
			listFunc: func(ctx context.Context) ([]entity.Bill, error) {
				return nil, errors.New("Erreur 500")
			},
		}

		_, err := NewBillListService(store, &mockLogger{}).List(context.Background())

		assert.EqualError(t, err, "Erreur 500")
	})
}

func TestNewBillsView_DoesNotMutateInput(t *testing.T) {
	bills := []entity.Bill{{Name: "old", Date: "2020-01-01"}, {Name: "new", Date: "2023-01-01"}}

	view := NewBillsView(bills, false, "")

	assert.Equal(t, "new", view.Data[0].Name)
	assert.Equal(t, "old", bills[0].Name)
}
