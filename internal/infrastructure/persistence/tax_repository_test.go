package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

func TestGormTaxRateCalculator_Rate(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&[]models.TaxRateModel{
		{TaxClassID: 2, CountryCode: "NL", StoreID: 0, Rate: decimal.NewFromInt(21)},
		{TaxClassID: 2, CountryCode: "BE", StoreID: 0, Rate: decimal.NewFromInt(21)},
		{TaxClassID: 2, CountryCode: "DE", StoreID: 0, Rate: decimal.NewFromInt(19)},
		{TaxClassID: 2, CountryCode: "DE", StoreID: 3, Rate: decimal.NewFromInt(7)},
	}).Error)
	calc := NewGormTaxRateCalculator(db)

	tests := []struct {
		name    string
		req     integration.TaxRateRequest
		want    decimal.Decimal
		wantErr error
	}{
		{
			name: "shipping country wins",
			req: integration.TaxRateRequest{TaxClassID: 2, StoreID: 1,
				Shipping: integration.Address{CountryCode: "de"}, Billing: integration.Address{CountryCode: "NL"}},
			want: decimal.NewFromInt(19),
		},
		{
			name: "billing country without shipping",
			req:  integration.TaxRateRequest{TaxClassID: 2, StoreID: 1, Billing: integration.Address{CountryCode: "NL"}},
			want: decimal.NewFromInt(21),
		},
		{
			name: "store specific rate",
			req:  integration.TaxRateRequest{TaxClassID: 2, StoreID: 3, Shipping: integration.Address{CountryCode: "DE"}},
			want: decimal.NewFromInt(7),
		},
		{
			name: "no matching row",
			req:  integration.TaxRateRequest{TaxClassID: 9, StoreID: 1, Shipping: integration.Address{CountryCode: "NL"}},
			want: decimal.Zero,
		},
		{
			name: "no tax class",
			req:  integration.TaxRateRequest{TaxClassID: 0},
			want: decimal.Zero,
		},
		{
			name:    "no country",
			req:     integration.TaxRateRequest{TaxClassID: 2, StoreID: 1},
			wantErr: integration.ErrTaxRateUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := calc.Rate(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(rate), "want %s got %s", tt.want, rate)
		})
	}
}

func TestGormWeeeTaxLookup(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	lookup := NewGormWeeeTaxLookup(db)

	t.Run("table absent", func(t *testing.T) {
		available, err := lookup.Available(ctx)
		require.NoError(t, err)
		assert.False(t, available)
	})

	require.NoError(t, db.AutoMigrate(&models.WeeeTaxModel{}))
	require.NoError(t, db.Create(&[]models.WeeeTaxModel{
		{ValueID: 1, EntityID: 42, CountryCode: "NL", Value: decimal.RequireFromString("2.50")},
		{ValueID: 2, EntityID: 42, CountryCode: "NL", Value: decimal.RequireFromString("9.99")},
		{ValueID: 3, EntityID: 42, CountryCode: "BE", Value: decimal.RequireFromString("3.00")},
	}).Error)

	t.Run("table present", func(t *testing.T) {
		available, err := lookup.Available(ctx)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("first match", func(t *testing.T) {
		value, err := lookup.Value(ctx, 42, "nl")
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("2.50")), "got %s", value)
	})

	t.Run("zero without match", func(t *testing.T) {
		value, err := lookup.Value(ctx, 42, "DE")
		require.NoError(t, err)
		assert.True(t, value.IsZero())

		value, err = lookup.Value(ctx, 42, "")
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})
}

func TestGormWeeeTaxLookup_Value_QueryError(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "weee_tax" WHERE entity_id = \$1 AND country = \$2 ORDER BY value_id LIMIT \$3`).
		WithArgs(int64(42), "NL", 1).
		WillReturnError(errors.New("permission denied"))

	_, err := NewGormWeeeTaxLookup(gormDB).Value(context.Background(), 42, "NL")

	assert.EqualError(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWeeeTaxLookup_Value_SQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "weee_tax" WHERE entity_id = \$1 AND country = \$2 ORDER BY value_id LIMIT \$3`).
		WithArgs(int64(5), "BE", 1).
		WillReturnRows(sqlmock.NewRows([]string{"value_id", "entity_id", "country", "value"}).AddRow(9, 5, "BE", "1.25"))

	value, err := NewGormWeeeTaxLookup(gormDB).Value(context.Background(), 5, "BE")

	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("1.25")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
