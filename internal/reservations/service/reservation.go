package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tabletop/internal/reservations/access"
	"tabletop/internal/reservations/audit"
	reservationerrors "tabletop/internal/reservations/errors"
	"tabletop/internal/reservations/repository"
	"tabletop/internal/reservations/rules"
	"tabletop/internal/reservations/validator"
	"tabletop/pkg/config"
	apperrors "tabletop/pkg/errors"
	"tabletop/pkg/model"
	"tabletop/pkg/sanitizer"
)

// ReservationService is the transaction manager for the booking engine: it
// admits or rejects create requests and runs the compensating logic on
// cancellation. The overlap re-check and the conditional stock decrements
// are committed in the same transaction as the reservation insert; that is
// what keeps double-booking and overselling out under concurrent load.
type ReservationService interface {
	Create(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error)
	Cancel(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error)
	GetByID(ctx context.Context, actor access.Actor, id string) (*model.Reservation, error)
	List(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
}

type reservationService struct {
	repo          repository.ReservationRepository
	resourceRepo  repository.ResourceRepository
	inventoryRepo repository.InventoryRepository
	memberRepo    repository.MemberRepository
	lockRepo      repository.ResourceLockRepository
	validator     *validator.ReservationValidator
	policy        rules.Policy
	audit         *audit.Emitter
	cfg           *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	resourceRepo repository.ResourceRepository,
	inventoryRepo repository.InventoryRepository,
	memberRepo repository.MemberRepository,
	lockRepo repository.ResourceLockRepository,
	validator *validator.ReservationValidator,
	policy rules.Policy,
	auditEmitter *audit.Emitter,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:          repo,
		resourceRepo:  resourceRepo,
		inventoryRepo: inventoryRepo,
		memberRepo:    memberRepo,
		lockRepo:      lockRepo,
		validator:     validator,
		policy:        policy,
		audit:         auditEmitter,
		cfg:           cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error) {
	req.Note = sanitizer.NormalizeNote(req.Note)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Reservation request validation failed", "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}

	ownerID, err := actor.ResolveOwner(req.OwnerID)
	if err != nil {
		return nil, err
	}

	owner, err := s.resolveOwnerProfile(ctx, actor, ownerID)
	if err != nil {
		return nil, err
	}

	resource, err := s.lookupActiveResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	activeFuture, err := s.repo.CountActiveFuture(ctx, ownerID, now)
	if err != nil {
		return nil, apperrors.Internal("Failed to count active reservations", err)
	}

	if err := s.policy.Admit(req.StartAt, req.EndAt, now, req.PartySize, resource.Capacity, int(activeFuture)); err != nil {
		var violation *rules.Violation
		if errors.As(err, &violation) {
			return nil, apperrors.PolicyViolation(violation.Rule, violation.Message)
		}
		return nil, apperrors.Internal("Rule evaluation failed", err)
	}

	picks := aggregatePicks(req.ItemPicks)
	holds, err := s.checkStockAdvisory(ctx, picks)
	if err != nil {
		return nil, err
	}

	// The advisory lock serializes all creates on the resource for the
	// duration of the transaction. The transaction alone is not enough:
	// its snapshot reads cannot see a concurrent insert for an
	// overlapping window, so without the lock both would commit.
	// Contention surfaces as a conflict the caller can retry.
	lockID, err := s.acquireResourceLock(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release resource lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	reservation := &model.Reservation{
		MemberID:   ownerID,
		ResourceID: req.ResourceID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		PartySize:  req.PartySize,
		Note:       req.Note,
		Status:     model.StatusConfirmed,
		CreatedBy:  actor.MemberID(),
		Holds:      holds,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, reservation); err != nil {
			return err
		}

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		for _, pick := range picks {
			if err := s.inventoryRepo.DecrementStock(sessCtx, pick.ItemID, pick.Quantity); err != nil {
				if errors.Is(err, reservationerrors.ErrInsufficientStock) {
					return apperrors.Conflict(fmt.Sprintf(
						"stock for item %s was claimed by a concurrent reservation", pick.ItemID,
					))
				}
				return apperrors.Internal("Failed to hold inventory stock", err)
			}
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return nil, err
	}

	s.audit.ReservationCreated(ctx, reservation, actor.MemberID())

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"member_id", reservation.MemberID,
		"resource_id", reservation.ResourceID,
		"start_at", reservation.StartAt,
		"holds", len(reservation.Holds),
	)

	return &model.ReservationDetail{
		Reservation: *reservation,
		Resource:    resource.Summary(),
		Owner:       owner,
	}, nil
}

func (s *reservationService) Cancel(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	if !actor.Privileged() && reservation.MemberID != actor.MemberID() {
		return nil, apperrors.Forbidden("members may only cancel their own reservations")
	}

	if reservation.Status == model.StatusCancelled {
		return nil, apperrors.CancellationClosed("reservation is already cancelled")
	}

	deadline := reservation.StartAt.Add(-s.policy.CancellationCutoff)
	if time.Now().After(deadline) {
		return nil, apperrors.CancellationClosed(fmt.Sprintf(
			"reservations must be cancelled at least %s before start", s.policy.CancellationCutoff,
		))
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		matched, err := s.repo.MarkCancelled(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to cancel reservation", err)
		}
		if matched == 0 {
			// A concurrent cancel won the row-level race.
			return apperrors.CancellationClosed("reservation is already cancelled")
		}

		for _, hold := range reservation.Holds {
			if err := s.inventoryRepo.IncrementStock(sessCtx, hold.ItemID, hold.Quantity); err != nil {
				return apperrors.Internal("Failed to release inventory hold", err)
			}
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return nil, err
	}

	reservation.Status = model.StatusCancelled
	s.audit.ReservationCancelled(ctx, reservation, actor.MemberID())

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", id,
		"member_id", reservation.MemberID,
		"released_holds", len(reservation.Holds),
	)

	return &model.CancelResult{ID: id, Status: model.StatusCancelled}, nil
}

func (s *reservationService) GetByID(ctx context.Context, actor access.Actor, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	if !actor.Privileged() && reservation.MemberID != actor.MemberID() {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}

	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if filter == nil {
		filter = &model.ReservationFilter{}
	}
	actor.Scope(filter)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// --- Helpers ---

func (s *reservationService) resolveOwnerProfile(ctx context.Context, actor access.Actor, ownerID string) (model.MemberSummary, error) {
	member, err := s.memberRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) || errors.Is(err, reservationerrors.ErrInvalidID) {
			// A staff actor naming a nonexistent owner is an error; a
			// self-service actor's profile lives in the identity service
			// and may not be mirrored here yet.
			if actor.Privileged() {
				return model.MemberSummary{}, apperrors.NotFoundWithID("Owner", ownerID)
			}
			return model.MemberSummary{ID: ownerID}, nil
		}
		return model.MemberSummary{}, apperrors.Internal("Failed to resolve owner", err)
	}
	return member.Summary(), nil
}

func (s *reservationService) lookupActiveResource(ctx context.Context, resourceID string) (*model.Resource, error) {
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
		// Inactive resources are invisible to booking flows.
		return nil, apperrors.NotFoundWithID("Resource", resourceID)
	}
	return resource, nil
}

// aggregatePicks merges duplicate item ids by summing quantities, keeping
// first-seen order.
func aggregatePicks(picks []model.ItemPick) []model.ItemPick {
	if len(picks) == 0 {
		return nil
	}

	index := make(map[string]int, len(picks))
	aggregated := make([]model.ItemPick, 0, len(picks))
	for _, pick := range picks {
		if i, ok := index[pick.ItemID]; ok {
			aggregated[i].Quantity += pick.Quantity
			continue
		}
		index[pick.ItemID] = len(aggregated)
		aggregated = append(aggregated, pick)
	}
	return aggregated
}

// checkStockAdvisory verifies every picked item exists, is active and has
// sufficient stock. This is only advisory: the authoritative check is the
// conditional decrement inside the transaction. Any shortfall rejects the
// whole request; there are no partial reservations.
func (s *reservationService) checkStockAdvisory(ctx context.Context, picks []model.ItemPick) ([]model.InventoryHold, error) {
	if len(picks) == 0 {
		return nil, nil
	}

	holds := make([]model.InventoryHold, 0, len(picks))
	for _, pick := range picks {
		item, err := s.inventoryRepo.FindByID(ctx, pick.ItemID)
		if err != nil {
			if errors.Is(err, reservationerrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("Inventory item", pick.ItemID)
			}
			if errors.Is(err, reservationerrors.ErrInvalidID) {
				return nil, apperrors.InvalidInput("Invalid inventory item ID format")
			}
			return nil, apperrors.Internal("Failed to retrieve inventory item", err)
		}
		if !item.Active {
			return nil, apperrors.PolicyViolation("item_inactive", fmt.Sprintf("item %q is not available for reservation", item.Title))
		}
		if item.StockAvailable < pick.Quantity {
			return nil, apperrors.PolicyViolation("insufficient_stock", fmt.Sprintf(
				"item %q has %d unit(s) available, %d requested", item.Title, item.StockAvailable, pick.Quantity,
			))
		}

		holds = append(holds, model.InventoryHold{
			ItemID:   pick.ItemID,
			Title:    item.Title,
			Quantity: pick.Quantity,
		})
	}
	return holds, nil
}

// verifyNoOverlap re-checks the no-overlap invariant against committed state
// inside the transaction, using the same half-open predicate as the
// availability read path.
func (s *reservationService) verifyNoOverlap(ctx context.Context, reservation *model.Reservation) error {
	existing, err := s.repo.FindOverlapping(ctx, reservation.ResourceID, reservation.StartAt, reservation.EndAt)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	for _, other := range existing {
		if other.ID == reservation.ID {
			continue
		}
		if rules.Overlaps(other.StartAt, other.EndAt, reservation.StartAt, reservation.EndAt) {
			return apperrors.Conflict(fmt.Sprintf(
				"reservation overlaps an existing booking (%s - %s)",
				other.StartAt.Format(time.RFC3339),
				other.EndAt.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// lockTTL bounds how long an abandoned lock can block a resource. It must
// comfortably exceed the create transaction's worst case so the TTL reaper
// never releases a lock that is still doing its job.
const lockTTL = 30 * time.Second

func (s *reservationService) acquireResourceLock(ctx context.Context, resourceID string) (string, error) {
	lock := &model.ResourceLock{
		ID:        resourceID,
		ExpiresAt: time.Now().Add(lockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, reservationerrors.ErrLockHeld) {
			return "", apperrors.Conflict("this resource is currently being booked by another request, please retry")
		}
		return "", apperrors.Internal("Failed to acquire resource lock", err)
	}

	return lock.ID, nil
}
