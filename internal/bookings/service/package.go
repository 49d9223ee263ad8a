package service

import (
	"context"
	"errors"

	bookingserrors "safari/internal/bookings/errors"
	"safari/internal/bookings/repository"
	"safari/pkg/config"
	apperrors "safari/pkg/errors"
	"safari/pkg/model"
)

type PackageService interface {
	GetByID(ctx context.Context, id string) (*model.Package, error)
	ListActive(ctx context.Context, limit int, offset int64) ([]*model.Package, int64, error)
}

type packageService struct {
	repo repository.PackageRepository
	cfg  *config.Config
}

func NewPackageService(repo repository.PackageRepository, cfg *config.Config) PackageService {
	return &packageService{repo: repo, cfg: cfg}
}

// GetByID hides inactive packages.
func (s *packageService) GetByID(ctx context.Context, id string) (*model.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPackageNotFound) {
			return nil, apperrors.NotFoundWithID("Package", id)
		}
		s.cfg.Log.Error("Failed to load package", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve package", err)
	}
	if !pkg.IsActive {
		return nil, apperrors.NotFoundWithID("Package", id)
	}
	return pkg, nil
}

func (s *packageService) ListActive(ctx context.Context, limit int, offset int64) ([]*model.Package, int64, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count packages", "error", err)
		return nil, 0, apperrors.Internal("Failed to count packages", err)
	}
	if count == 0 || offset >= count {
		return []*model.Package{}, count, nil
	}

	packages, err := s.repo.FindActive(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list packages", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve packages", err)
	}
	return packages, count, nil
}
