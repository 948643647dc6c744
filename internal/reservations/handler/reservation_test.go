package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"tabletop/internal/reservations/access"
	"tabletop/pkg/config"
	apperrors "tabletop/pkg/errors"
	httputil "tabletop/pkg/http"
	"tabletop/pkg/logger"
	"tabletop/pkg/model"
)

type mockReservationService struct {
	CreateFunc  func(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error)
	CancelFunc  func(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error)
	GetByIDFunc func(ctx context.Context, actor access.Actor, id string) (*model.Reservation, error)
	ListFunc    func(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
}

func (m *mockReservationService) Create(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error) {
	return m.CreateFunc(ctx, actor, req)
}

func (m *mockReservationService) Cancel(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error) {
	return m.CancelFunc(ctx, actor, id)
}

func (m *mockReservationService) GetByID(ctx context.Context, actor access.Actor, id string) (*model.Reservation, error) {
	return m.GetByIDFunc(ctx, actor, id)
}

func (m *mockReservationService) List(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return m.ListFunc(ctx, actor, filter, limit, offset)
}

const (
	testMemberID      = "665f1f77bcf86cd799439021"
	testResourceID    = "665f1f77bcf86cd799439011"
	testReservationID = "665f1f77bcf86cd799439099"
)

func testHandlerConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard, Service: "reservations-test"}),
	}
}

func newRouter(svc *mockReservationService) *httprouter.Router {
	router := httprouter.New()
	NewReservationHandler(svc, testHandlerConfig()).RegisterRoutes(router)
	return router
}

func createPayload() []byte {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	body, _ := json.Marshal(model.ReservationRequest{
		ResourceID: testResourceID,
		StartAt:    start,
		EndAt:      start.Add(90 * time.Minute),
		PartySize:  4,
	})
	return body
}

func asMember(r *http.Request) *http.Request {
	r.Header.Set(access.HeaderMemberID, testMemberID)
	r.Header.Set(access.HeaderMemberRole, access.RoleMember)
	return r
}

func decodeErrorResponse(t *testing.T, body io.Reader) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestCreateReservationEndpoint(t *testing.T) {
	svc := &mockReservationService{
		CreateFunc: func(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error) {
			if actor.Privileged() {
				t.Error("expected self-service actor from member headers")
			}
			return &model.ReservationDetail{
				Reservation: model.Reservation{
					ID:       testReservationID,
					MemberID: actor.MemberID(),
					Status:   model.StatusConfirmed,
				},
			}, nil
		},
	}
	router := newRouter(svc)

	req := asMember(httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(createPayload())))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.ReservationDetail `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != testReservationID || resp.Data.Status != model.StatusConfirmed {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestCreateReservationMissingIdentity(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(createPayload()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected code %s, got %s", apperrors.CodeUnauthorized, resp.Code)
	}
}

func TestCreateReservationMalformedBody(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := asMember(httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader([]byte("{not json"))))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, resp.Code)
	}
}

func TestCreateReservationPolicyViolationPassthrough(t *testing.T) {
	svc := &mockReservationService{
		CreateFunc: func(ctx context.Context, actor access.Actor, req *model.ReservationRequest) (*model.ReservationDetail, error) {
			return nil, apperrors.PolicyViolation("slot_duration", "reservations must last exactly 90 minutes")
		},
	}
	router := newRouter(svc)

	req := asMember(httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(createPayload())))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	resp := decodeErrorResponse(t, rec.Body)
	if resp.Code != apperrors.CodePolicyViolation {
		t.Errorf("expected code %s, got %s", apperrors.CodePolicyViolation, resp.Code)
	}
	if resp.Details["rule"] != "slot_duration" {
		t.Errorf("expected rule detail, got %v", resp.Details)
	}
}

func TestCancelReservationEndpoint(t *testing.T) {
	svc := &mockReservationService{
		CancelFunc: func(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error) {
			if id != testReservationID {
				t.Errorf("expected id %s, got %s", testReservationID, id)
			}
			return &model.CancelResult{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	router := newRouter(svc)

	url := fmt.Sprintf("/api/v1/reservations/id/%s/cancel", testReservationID)
	req := asMember(httptest.NewRequest(http.MethodPost, url, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.CancelResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != testReservationID || resp.Data.Status != model.StatusCancelled {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestCancelReservationCutoffPassthrough(t *testing.T) {
	svc := &mockReservationService{
		CancelFunc: func(ctx context.Context, actor access.Actor, id string) (*model.CancelResult, error) {
			return nil, apperrors.CancellationClosed("reservations must be cancelled at least 2h0m0s before start")
		},
	}
	router := newRouter(svc)

	url := fmt.Sprintf("/api/v1/reservations/id/%s/cancel", testReservationID)
	req := asMember(httptest.NewRequest(http.MethodPost, url, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != apperrors.CodeCancellationClosed {
		t.Errorf("expected code %s, got %s", apperrors.CodeCancellationClosed, resp.Code)
	}
}

func TestListReservationsEndpoint(t *testing.T) {
	var gotFilter *model.ReservationFilter
	var gotLimit int
	svc := &mockReservationService{
		ListFunc: func(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
			gotFilter = filter
			gotLimit = limit
			return []*model.Reservation{{ID: testReservationID, Status: model.StatusConfirmed}}, 1, nil
		},
	}
	router := newRouter(svc)

	// Lowercase status must reach the service in canonical form.
	req := asMember(httptest.NewRequest(http.MethodGet, "/api/v1/reservations?status=confirmed&limit=5", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotFilter.Status != model.StatusConfirmed {
		t.Errorf("expected normalized status filter, got %q", gotFilter.Status)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}

	var resp httputil.PaginatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 1 {
		t.Errorf("expected total_count 1, got %d", resp.TotalCount)
	}
}

func TestListReservationsBadTimeFilter(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := asMember(httptest.NewRequest(http.MethodGet, "/api/v1/reservations?from=yesterday", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetReservationEndpoint(t *testing.T) {
	svc := &mockReservationService{
		GetByIDFunc: func(ctx context.Context, actor access.Actor, id string) (*model.Reservation, error) {
			return &model.Reservation{ID: id, MemberID: testMemberID, Status: model.StatusConfirmed}, nil
		},
	}
	router := newRouter(svc)

	req := asMember(httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/"+testReservationID, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStaffRoleResolvesPrivilegedActor(t *testing.T) {
	svc := &mockReservationService{
		ListFunc: func(ctx context.Context, actor access.Actor, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
			if !actor.Privileged() {
				t.Error("expected privileged actor from staff role header")
			}
			return nil, 0, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	req.Header.Set(access.HeaderMemberID, testMemberID)
	req.Header.Set(access.HeaderMemberRole, access.RoleStaff)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
