package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/services"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) ListInStock(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateInput
		wantErr   bool
		checkUnit string
	}{
		{
			name:      "defaults unit to Kg",
			input:     CreateInput{Name: "Apel Malang", Price: decimal.NewFromInt(15000), Stock: 20},
			checkUnit: models.DefaultProductUnit,
		},
		{
			name:      "keeps explicit unit",
			input:     CreateInput{Name: "Bayam", Price: decimal.NewFromInt(5000), Unit: "Ikat"},
			checkUnit: "Ikat",
		},
		{
			name:    "blank name",
			input:   CreateInput{Name: "  ", Price: decimal.NewFromInt(1)},
			wantErr: true,
		},
		{
			name:    "negative price",
			input:   CreateInput{Name: "Apel", Price: decimal.NewFromInt(-1)},
			wantErr: true,
		},
		{
			name:    "negative stock",
			input:   CreateInput{Name: "Apel", Price: decimal.NewFromInt(1), Stock: -3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			svc := NewService(repo, nil, zap.NewNop())

			product, err := svc.Create(context.Background(), uuid.New(), tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, services.IsValidationError(err))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.checkUnit, product.Unit)
			assert.Equal(t, tt.input.Stock, product.Stock)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListAvailable(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo, nil, zap.NewNop())

	apel := models.NewProduct("Apel", "", decimal.NewFromInt(15000), "", 3, "buah")
	repo.On("ListInStock", mock.Anything).Return([]*models.Product{apel}, nil).Once()
	repo.On("ListInStock", mock.Anything).Return(nil, errors.New("timeout")).Once()

	products, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*models.Product{apel}, products)

	_, err = svc.ListAvailable(context.Background())
	assert.True(t, services.IsInternalError(err))
}
