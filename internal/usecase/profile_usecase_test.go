package usecase

import (
	"context"
	"testing"
	"time"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/repository"
)

func TestProfileUsecase_UpdateRefreshesCacheAndSession(t *testing.T) {
	h := newHarness(t)
	sessions := repository.NewSessionRepository(h.store)
	uc := NewProfileUsecase(h.log, h.users, sessions, h.cache, h.audit, time.Minute, time.Hour)
	session := h.patientSession()
	ctx := context.Background()

	before, err := uc.GetProfile(ctx, session)
	if err != nil || before.FullName != "Asha Rao" {
		t.Fatalf("get: %+v, %v", before, err)
	}

	name := "Asha R."
	if _, err := uc.UpdateProfile(ctx, session, &dto.ProfileUpdateRequest{FullName: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := uc.GetProfile(ctx, session)
	if err != nil || after.FullName != name {
		t.Errorf("expected fresh profile after update, got %+v, %v", after, err)
	}
	if h.users.meCalls != 2 {
		t.Errorf("expected profile reload after invalidation, got %d calls", h.users.meCalls)
	}

	stored, err := sessions.Find(ctx, session.ID)
	if err != nil || stored == nil || stored.User.FullName != name {
		t.Fatalf("expected session identity updated, got %+v, %v", stored, err)
	}
	if len(stored.User.Roles) == 0 {
		t.Error("expected role tags kept when the update response omits them")
	}
}

func TestLabTestUsecase_GetMenu(t *testing.T) {
	h := newHarness(t)
	uc := NewLabTestUsecase(h.log, h.tests, h.cache, time.Minute)

	menu, err := uc.GetMenu(context.Background(), nil, "", "")
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if menu.Total != 2 || len(menu.Categories) != 1 || menu.Categories[0] != "Blood" {
		t.Errorf("expected active tests only, got %+v", menu)
	}

	menu, err = uc.GetMenu(context.Background(), nil, "blood", "lipid")
	if err != nil || menu.Total != 1 || menu.Tests[0].ID != 2 {
		t.Errorf("expected filtered menu, got %+v, %v", menu, err)
	}
}
