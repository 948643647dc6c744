package service

import (
	"context"
	"errors"
	"time"

	reservationerrors "tabletop/internal/reservations/errors"
	"tabletop/internal/reservations/repository"
	"tabletop/pkg/config"
	apperrors "tabletop/pkg/errors"
	"tabletop/pkg/model"
)

// ResourceService exposes the read side of the booking engine: the table
// catalogue and point-in-range availability.
type ResourceService interface {
	ListActive(ctx context.Context) ([]*model.Resource, error)
	Availability(ctx context.Context, resourceID string, from, to time.Time) (*model.ResourceAvailability, error)
}

type resourceService struct {
	resourceRepo    repository.ResourceRepository
	reservationRepo repository.ReservationRepository
	cfg             *config.Config
}

func NewResourceService(resourceRepo repository.ResourceRepository, reservationRepo repository.ReservationRepository, cfg *config.Config) ResourceService {
	return &resourceService{
		resourceRepo:    resourceRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
	}
}

func (s *resourceService) ListActive(ctx context.Context) ([]*model.Resource, error) {
	resources, err := s.resourceRepo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list resources", "error", err)
		return nil, apperrors.Internal("Failed to retrieve resources", err)
	}
	return resources, nil
}

// Availability reports whether the resource is free for the whole [from, to)
// window. The answer is advisory: it reflects committed state at read time
// and a create may still lose to a concurrent booking.
func (s *resourceService) Availability(ctx context.Context, resourceID string, from, to time.Time) (*model.ResourceAvailability, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if !to.After(from) {
		return nil, apperrors.InvalidInput("'to' must be after 'from'")
	}

	resource, err := s.resourceRepo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	if !resource.Active {
		return nil, apperrors.NotFoundWithID("Resource", resourceID)
	}

	overlapping, err := s.reservationRepo.FindOverlapping(ctx, resourceID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "resource_id", resourceID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	return &model.ResourceAvailability{
		Resource:  resource.Summary(),
		From:      from,
		To:        to,
		Available: len(overlapping) == 0,
	}, nil
}
