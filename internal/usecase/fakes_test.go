package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/infrastructure/cache"
	"lab-appointment-web/internal/repository"
	"lab-appointment-web/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fakeAuthRepo struct {
	token string
	err   error
}

func (f *fakeAuthRepo) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthRepo) Register(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

type fakeUserRepo struct {
	mu      sync.Mutex
	me      *entity.User
	meErr   error
	users   []entity.User
	updated *entity.ProfileUpdate
	meCalls int
}

func (f *fakeUserRepo) Me(ctx context.Context, token string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := *f.me
	return &u, nil
}

func (f *fakeUserRepo) UpdateMe(ctx context.Context, token string, update *entity.ProfileUpdate) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = update
	u := *f.me
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	u.Roles = nil
	f.me = &u
	return &u, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, token string) ([]entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, token, username string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

type fakeTestRepo struct {
	tests []entity.LabTest
}

func (f *fakeTestRepo) FindAll(ctx context.Context, token string) ([]entity.LabTest, error) {
	return f.tests, nil
}

type fakeAppointmentRepo struct {
	mu        sync.Mutex
	mine      []entity.Appointment
	all       []entity.Appointment
	booked    *entity.BookAppointmentRequest
	bookErr   error
	updateErr error
	updates   int
	allCalls  int
}

func (f *fakeAppointmentRepo) Book(ctx context.Context, token string, req *entity.BookAppointmentRequest) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.booked = req
	return &entity.Appointment{ID: 99, Status: entity.AppointmentStatusPending, AppointmentTime: req.AppointmentTime}, nil
}

func (f *fakeAppointmentRepo) FindMine(ctx context.Context, token string) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Appointment(nil), f.mine...), nil
}

func (f *fakeAppointmentRepo) FindAll(ctx context.Context, token string) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	return append([]entity.Appointment(nil), f.all...), nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, token string, id int64, status entity.AppointmentStatus, reportURL *string) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates++
	for i := range f.all {
		if f.all[i].ID == id {
			f.all[i].Status = status
			updated := f.all[i]
			return &updated, nil
		}
	}
	return nil, nil
}

type harness struct {
	log          *logrus.Logger
	store        *cache.MemoryStore
	cache        *service.QueryCache
	audit        service.AuditService
	users        *fakeUserRepo
	tests        *fakeTestRepo
	appointments *fakeAppointmentRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := cache.NewMemoryStore()
	qc, err := service.NewQueryCache(context.Background(), store, log)
	if err != nil {
		t.Fatalf("query cache: %v", err)
	}
	t.Cleanup(qc.Stop)

	age := 34
	return &harness{
		log:   log,
		store: store,
		cache: qc,
		audit: service.NewAuditService(nil, log, repository.NewAuditLogRepository()),
		users: &fakeUserRepo{me: &entity.User{
			ID: 7, Username: "asha", FullName: "Asha Rao", Age: &age, Gender: "Female",
			PhoneNumber: "9000000001", Roles: entity.RoleTags{entity.RoleTagUser},
		}},
		tests: &fakeTestRepo{tests: []entity.LabTest{
			{ID: 1, TestName: "CBC", Category: "Blood", Price: decimal.NewFromInt(300), Active: true},
			{ID: 2, TestName: "Lipid Profile", Category: "Blood", Price: decimal.NewFromInt(550), Active: true},
			{ID: 3, TestName: "Retired", Category: "Urine", Price: decimal.NewFromInt(100), Active: false},
		}},
		appointments: &fakeAppointmentRepo{},
	}
}

func (h *harness) patientSession() *entity.Session {
	return entity.NewSession("patient-token", h.users.me)
}

func (h *harness) adminSession() *entity.Session {
	return entity.NewSession("admin-token", &entity.User{ID: 1, Username: "admin", Roles: entity.RoleTags{entity.RoleTagAdmin}})
}

func (h *harness) appointmentUsecase() *appointmentUsecase {
	uc := NewAppointmentUsecase(h.log, h.appointments, h.users, repository.NewListStateRepository(h.store), h.cache, h.audit, AppointmentUsecaseConfig{
		Location:      time.UTC,
		ProfileTTL:    time.Minute,
		CollectionTTL: time.Minute,
		SessionTTL:    time.Hour,
		PageSize:      2,
	})
	return uc.(*appointmentUsecase)
}

func (h *harness) bookingUsecase() BookingUsecase {
	return NewBookingUsecase(h.log, repository.NewBookingDraftRepository(h.store), h.users, h.tests, h.appointments, h.cache, h.audit, BookingUsecaseConfig{
		Location:      time.UTC,
		HomeVisitFee:  decimal.NewFromInt(100),
		ProfileTTL:    time.Minute,
		CollectionTTL: time.Minute,
		DraftTTL:      time.Hour,
	})
}

func strPtr(s string) *string {
	return &s
}
