package access

import (
	"net/http/httptest"
	"testing"

	apperrors "tabletop/pkg/errors"
	"tabletop/pkg/model"
)

func TestSelfService_ResolveOwner(t *testing.T) {
	actor := SelfService{ID: "64a000000000000000000001"}

	tests := []struct {
		name      string
		requested string
		wantOwner string
		wantCode  string
	}{
		{"empty owner resolves to self", "", "64a000000000000000000001", ""},
		{"own id accepted", "64a000000000000000000001", "64a000000000000000000001", ""},
		{"other owner forbidden", "64a000000000000000000002", "", apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := actor.ResolveOwner(tt.requested)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if owner != tt.wantOwner {
					t.Errorf("owner = %s, want %s", owner, tt.wantOwner)
				}
				return
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestPrivileged_ResolveOwner(t *testing.T) {
	actor := Privileged{ID: "64a0000000000000000000ff"}

	if _, err := actor.ResolveOwner(""); err == nil {
		t.Error("staff booking without an explicit owner must be rejected")
	}

	owner, err := actor.ResolveOwner("64a000000000000000000002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "64a000000000000000000002" {
		t.Errorf("owner = %s, want the requested member", owner)
	}
}

func TestScope(t *testing.T) {
	f := &model.ReservationFilter{MemberID: "64a000000000000000000099"}
	SelfService{ID: "64a000000000000000000001"}.Scope(f)
	if f.MemberID != "64a000000000000000000001" {
		t.Error("self-service scope must override any supplied owner filter")
	}

	f = &model.ReservationFilter{MemberID: "64a000000000000000000099"}
	Privileged{ID: "64a0000000000000000000ff"}.Scope(f)
	if f.MemberID != "64a000000000000000000099" {
		t.Error("privileged scope must leave the filter untouched")
	}
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name           string
		memberID       string
		role           string
		wantPrivileged bool
		wantErr        bool
	}{
		{"member role", "64a000000000000000000001", RoleMember, false, false},
		{"default role is member", "64a000000000000000000001", "", false, false},
		{"staff role", "64a000000000000000000001", RoleStaff, true, false},
		{"missing identity", "", RoleMember, false, true},
		{"unknown role", "64a000000000000000000001", "root", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/reservations", nil)
			if tt.memberID != "" {
				r.Header.Set(HeaderMemberID, tt.memberID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderMemberRole, tt.role)
			}

			actor, err := FromRequest(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if actor.Privileged() != tt.wantPrivileged {
				t.Errorf("Privileged() = %v, want %v", actor.Privileged(), tt.wantPrivileged)
			}
			if actor.MemberID() != tt.memberID {
				t.Errorf("MemberID() = %s, want %s", actor.MemberID(), tt.memberID)
			}
		})
	}
}
