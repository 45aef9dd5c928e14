package villa

import (
	"context"
	"errors"
	"strings"
	"time"

	"villastay/database/repository"
	"villastay/models"
	"villastay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Slugify lowercases name and joins its alphanumeric runs with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func (s *DefaultVillaService) List(ctx context.Context, filter models.VillaFilter) ([]models.Villa, models.Pagination, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	villas, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, utils.Internal("failed to list villas", err)
	}
	return villas, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *DefaultVillaService) Get(ctx context.Context, id string) (*models.Villa, error) {
	villa, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "failed to load villa")
	}
	return villa, nil
}

func (s *DefaultVillaService) Create(ctx context.Context, input models.VillaInput) (*models.Villa, error) {
	now := time.Now().UTC()
	villa := &models.Villa{
		ID:          uuid.New().String(),
		IsActive:    true,
		IsPublished: true,
		CreatedAt:   now,
	}
	if err := s.apply(villa, input, now); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, villa); err != nil {
		return nil, mapRepoError(err, "failed to create villa")
	}
	s.Logger.Info("villa created", zap.String("villaId", villa.ID), zap.String("slug", villa.Slug))
	return villa, nil
}

func (s *DefaultVillaService) Update(ctx context.Context, id string, input models.VillaInput) (*models.Villa, error) {
	villa, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "failed to load villa")
	}
	if err := s.apply(villa, input, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, villa); err != nil {
		return nil, mapRepoError(err, "failed to update villa")
	}
	s.Logger.Info("villa updated", zap.String("villaId", villa.ID))
	return villa, nil
}

func (s *DefaultVillaService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "failed to delete villa")
	}
	s.Logger.Info("villa deleted", zap.String("villaId", id))
	return nil
}

// apply copies input onto villa. Flags left nil in input keep their value.
func (s *DefaultVillaService) apply(villa *models.Villa, input models.VillaInput, now time.Time) error {
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return utils.BadRequest("name must contain at least one letter or digit")
	}
	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.DefaultCurrency
	}

	villa.Name = strings.TrimSpace(input.Name)
	villa.Slug = slug
	villa.Location = strings.TrimSpace(input.Location)
	villa.Description = input.Description
	villa.PricePerNight = input.PricePerNight
	villa.Currency = currency
	villa.MaxGuests = input.MaxGuests
	villa.Bedrooms = input.Bedrooms
	villa.Bathrooms = input.Bathrooms
	villa.Amenities = input.Amenities
	villa.Images = input.Images
	if input.IsActive != nil {
		villa.IsActive = *input.IsActive
	}
	if input.IsPublished != nil {
		villa.IsPublished = *input.IsPublished
	}
	villa.UpdatedAt = now
	return nil
}

func mapRepoError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFound("Villa")
	case errors.Is(err, repository.ErrDuplicate):
		return utils.Conflict("A villa with this slug already exists")
	}
	return utils.Internal(message, err)
}
