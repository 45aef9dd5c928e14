package villaRepo

import (
	"context"

	"villastay/models"
)

// VillaRepository defines methods for villa data access.
type VillaRepository interface {
	// Create inserts a new villa.
	Create(ctx context.Context, villa *models.Villa) error
	// GetByID retrieves a villa by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Villa, error)
	// List returns one page of villas matching the filter and the total count.
	List(ctx context.Context, filter models.VillaFilter) ([]models.Villa, int64, error)
	// Update replaces an existing villa.
	Update(ctx context.Context, villa *models.Villa) error
	// Delete removes a villa by its ID.
	Delete(ctx context.Context, id string) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes(ctx context.Context) error
}
