package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	reservationerrors "tabletop/internal/reservations/errors"
	apperrors "tabletop/pkg/errors"
	"tabletop/pkg/model"
)

func TestListActiveResources(t *testing.T) {
	f := newFixture()
	f.resources.FindActiveFunc = func(ctx context.Context) ([]*model.Resource, error) {
		return []*model.Resource{activeResource()}, nil
	}

	svc := NewResourceService(f.resources, f.repo, f.cfg)
	resources, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 1 || resources[0].Code != "T1" {
		t.Errorf("unexpected resources: %+v", resources)
	}
}

func TestListActiveResourcesFailure(t *testing.T) {
	f := newFixture()
	f.resources.FindActiveFunc = func(ctx context.Context) ([]*model.Resource, error) {
		return nil, errors.New("network down")
	}

	svc := NewResourceService(f.resources, f.repo, f.cfg)
	_, err := svc.ListActive(context.Background())
	assertAppError(t, err, apperrors.CodeInternal, http.StatusInternalServerError)
}

func TestAvailabilityFreeWindow(t *testing.T) {
	f := newFixture()
	var gotStart, gotEnd time.Time
	f.repo.FindOverlappingFunc = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error) {
		gotStart, gotEnd = start, end
		return nil, nil
	}

	from, to := validSlot()
	svc := NewResourceService(f.resources, f.repo, f.cfg)
	availability, err := svc.Availability(context.Background(), testResourceID, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !availability.Available {
		t.Error("expected window to be available")
	}
	if !gotStart.Equal(from) || !gotEnd.Equal(to) {
		t.Errorf("expected overlap query for [%v, %v), got [%v, %v)", from, to, gotStart, gotEnd)
	}
	if availability.Resource.Code != "T1" {
		t.Errorf("expected hydrated resource summary, got %+v", availability.Resource)
	}
}

func TestAvailabilityBusyWindow(t *testing.T) {
	f := newFixture()
	from, to := validSlot()
	f.repo.FindOverlappingFunc = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error) {
		return []*model.Reservation{{ID: "x", StartAt: from, EndAt: to, Status: model.StatusConfirmed}}, nil
	}

	svc := NewResourceService(f.resources, f.repo, f.cfg)
	availability, err := svc.Availability(context.Background(), testResourceID, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.Available {
		t.Error("expected window to be reported busy")
	}
}

func TestAvailabilityInvalidWindow(t *testing.T) {
	f := newFixture()
	from, to := validSlot()

	svc := NewResourceService(f.resources, f.repo, f.cfg)
	_, err := svc.Availability(context.Background(), testResourceID, to, from)
	assertAppError(t, err, apperrors.CodeInvalidInput, http.StatusBadRequest)
}

func TestAvailabilityResourceNotFound(t *testing.T) {
	f := newFixture()
	f.resources.FindByIDFunc = func(ctx context.Context, id string) (*model.Resource, error) {
		return nil, reservationerrors.ErrNotFound
	}

	from, to := validSlot()
	svc := NewResourceService(f.resources, f.repo, f.cfg)
	_, err := svc.Availability(context.Background(), testResourceID, from, to)
	assertAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestAvailabilityInactiveResourceHidden(t *testing.T) {
	f := newFixture()
	f.resources.FindByIDFunc = func(ctx context.Context, id string) (*model.Resource, error) {
		resource := activeResource()
		resource.Active = false
		return resource, nil
	}

	from, to := validSlot()
	svc := NewResourceService(f.resources, f.repo, f.cfg)
	_, err := svc.Availability(context.Background(), testResourceID, from, to)
	assertAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}
