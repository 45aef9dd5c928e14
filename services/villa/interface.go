package villa

import (
	"context"

	villaRepo "villastay/database/repository/villa"
	"villastay/models"

	"go.uber.org/zap"
)

// VillaService manages the villa catalogue.
type VillaService interface {
	List(ctx context.Context, filter models.VillaFilter) ([]models.Villa, models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Villa, error)
	Create(ctx context.Context, input models.VillaInput) (*models.Villa, error)
	Update(ctx context.Context, id string, input models.VillaInput) (*models.Villa, error)
	Delete(ctx context.Context, id string) error
}

// DefaultVillaService is the production implementation.
type DefaultVillaService struct {
	Repo            villaRepo.VillaRepository
	Logger          *zap.Logger
	DefaultCurrency string
}

func NewDefaultVillaService(repo villaRepo.VillaRepository, logger *zap.Logger, currency string) *DefaultVillaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &DefaultVillaService{Repo: repo, Logger: logger, DefaultCurrency: currency}
}
