package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/service"
)

func TestResolveEventKey(t *testing.T) {
	h := newHarness(t)
	patient := h.patientSession()
	admin := h.adminSession()
	guest := entity.GuestSession()

	tests := []struct {
		name    string
		session *entity.Session
		key     string
		want    string
		wantErr error
	}{
		{name: "patient appointments", session: patient, key: EventAppointments, want: service.MineKey(patient.ID)},
		{name: "patient own appointments", session: patient, key: EventMyAppointments, want: service.MineKey(patient.ID)},
		{name: "patient tests", session: patient, key: EventTests, want: service.KeyTests},
		{name: "admin appointments", session: admin, key: EventAppointments, want: service.KeyAppointments},
		{name: "admin queue", session: admin, key: EventAdminAppointments, want: service.KeyAdminAppointments},
		{name: "admin users", session: admin, key: EventUsers, want: service.KeyUsers},
		{name: "admin profile", session: admin, key: EventProfile, want: service.ProfileKey(admin.ID)},
		{name: "patient denied admin queue", session: patient, key: EventAdminAppointments, wantErr: ErrForbidden},
		{name: "patient denied users", session: patient, key: EventUsers, wantErr: ErrForbidden},
		{name: "guest denied", session: guest, key: EventTests, wantErr: ErrForbidden},
		{name: "profile", session: patient, key: EventProfile, want: service.ProfileKey(patient.ID)},
		{name: "unknown for patient", session: patient, key: "doctors", wantErr: ErrUnknownEventKey},
		{name: "unknown for admin", session: admin, key: "doctors", wantErr: ErrUnknownEventKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEventKey(tt.session, tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestEventUsecase_Wait(t *testing.T) {
	h := newHarness(t)
	uc := NewEventUsecase(h.log, h.cache, 30*time.Millisecond)
	session := h.patientSession()

	got, err := uc.Wait(context.Background(), session, EventTests)
	if err != nil || got.Changed {
		t.Fatalf("expected timeout without change, got %+v, %v", got, err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = h.cache.Invalidate(context.Background(), service.KeyAppointments)
	}()
	uc = NewEventUsecase(h.log, h.cache, time.Second)
	got, err = uc.Wait(context.Background(), session, EventAppointments)
	if err != nil || !got.Changed || got.Key != EventAppointments {
		t.Errorf("expected change notification, got %+v, %v", got, err)
	}
}
