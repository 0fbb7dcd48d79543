package usecase

import (
	"context"
	"errors"
	"time"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrBookingFailed = errors.New("Booking Failed. Please try again.")

// Landing path after a successful booking
const bookingRedirect = "/my-appointments"

type BookingUsecase interface {
	// GetDraft returns the session's draft, starting a new one pre-filled
	// from the profile when none exists.
	GetDraft(ctx context.Context, session *entity.Session) (*dto.BookingDraftResponse, error)
	UpdatePatient(ctx context.Context, session *entity.Session, req *dto.PatientStepRequest) (*dto.BookingDraftResponse, error)
	UpdateTests(ctx context.Context, session *entity.Session, req *dto.TestStepRequest) (*dto.BookingDraftResponse, error)
	UpdateVisit(ctx context.Context, session *entity.Session, req *dto.VisitStepRequest) (*dto.BookingDraftResponse, error)
	Back(ctx context.Context, session *entity.Session) (*dto.BookingDraftResponse, error)
	Submit(ctx context.Context, session *entity.Session) (*dto.BookingSubmitResponse, error)
	Discard(ctx context.Context, session *entity.Session) error
}

type BookingUsecaseConfig struct {
	Location      *time.Location
	HomeVisitFee  decimal.Decimal
	ProfileTTL    time.Duration
	CollectionTTL time.Duration
	DraftTTL      time.Duration
}

type bookingUsecase struct {
	log             *logrus.Logger
	draftRepo       repository.BookingDraftRepository
	userRepo        repository.UserRepository
	testRepo        repository.LabTestRepository
	appointmentRepo repository.AppointmentRepository
	cache           *service.QueryCache
	audit           service.AuditService
	cfg             BookingUsecaseConfig
}

func NewBookingUsecase(
	log *logrus.Logger,
	draftRepo repository.BookingDraftRepository,
	userRepo repository.UserRepository,
	testRepo repository.LabTestRepository,
	appointmentRepo repository.AppointmentRepository,
	cache *service.QueryCache,
	audit service.AuditService,
	cfg BookingUsecaseConfig,
) BookingUsecase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &bookingUsecase{
		log:             log,
		draftRepo:       draftRepo,
		userRepo:        userRepo,
		testRepo:        testRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		audit:           audit,
		cfg:             cfg,
	}
}

func (u *bookingUsecase) draft(ctx context.Context, session *entity.Session) (*entity.BookingDraft, error) {
	draft, err := u.draftRepo.Find(ctx, session.ID)
	if err != nil {
		u.log.Warnf("Failed to load booking draft: %+v", err)
		return nil, err
	}
	if draft != nil {
		return draft, nil
	}

	profile, err := loadProfile(ctx, u.cache, u.userRepo, session, u.cfg.ProfileTTL)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		u.log.Warnf("Failed to load profile for prefill, starting empty: %+v", err)
		profile = session.User
	}
	return entity.NewBookingDraft(profile), nil
}

func (u *bookingUsecase) respond(ctx context.Context, session *entity.Session, draft *entity.BookingDraft) (*dto.BookingDraftResponse, error) {
	tests, err := loadTests(ctx, u.cache, u.testRepo, session, u.cfg.CollectionTTL)
	if err != nil {
		u.log.Warnf("Failed to load tests: %+v", err)
		return nil, err
	}
	return converter.BookingDraftToResponse(draft, tests, u.cfg.HomeVisitFee), nil
}

func (u *bookingUsecase) save(ctx context.Context, session *entity.Session, draft *entity.BookingDraft) error {
	if err := u.draftRepo.Save(ctx, session.ID, draft, u.cfg.DraftTTL); err != nil {
		u.log.Warnf("Failed to save booking draft: %+v", err)
		return err
	}
	return nil
}

func (u *bookingUsecase) GetDraft(ctx context.Context, session *entity.Session) (*dto.BookingDraftResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := u.save(ctx, session, draft); err != nil {
		return nil, err
	}
	return u.respond(ctx, session, draft)
}

func (u *bookingUsecase) UpdatePatient(ctx context.Context, session *entity.Session, req *dto.PatientStepRequest) (*dto.BookingDraftResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}

	var profile *entity.User
	if entity.BookingMode(req.Mode) == entity.BookingModeSelf && draft.Mode != entity.BookingModeSelf {
		profile, err = loadProfile(ctx, u.cache, u.userRepo, session, u.cfg.ProfileTTL)
		if err != nil {
			return nil, err
		}
	}

	details := entity.PatientDetails{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Mobile: req.Mobile,
	}
	if err := draft.SetPatient(entity.BookingMode(req.Mode), details, profile); err != nil {
		return nil, err
	}
	if req.Advance {
		if err := draft.Advance(); err != nil {
			return nil, err
		}
	}

	if err := u.save(ctx, session, draft); err != nil {
		return nil, err
	}
	return u.respond(ctx, session, draft)
}

func (u *bookingUsecase) UpdateTests(ctx context.Context, session *entity.Session, req *dto.TestStepRequest) (*dto.BookingDraftResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}

	tests, err := loadTests(ctx, u.cache, u.testRepo, session, u.cfg.CollectionTTL)
	if err != nil {
		u.log.Warnf("Failed to load tests: %+v", err)
		return nil, err
	}
	catalog := entity.NewLabTestCatalog(tests)

	if req.TestIDs != nil {
		if err := draft.SelectTests(req.TestIDs, catalog); err != nil {
			return nil, err
		}
	}
	if req.Toggle != nil {
		if err := draft.ToggleTest(*req.Toggle, catalog); err != nil {
			return nil, err
		}
	}
	if req.Advance {
		if err := draft.Advance(); err != nil {
			return nil, err
		}
	}

	if err := u.save(ctx, session, draft); err != nil {
		return nil, err
	}
	return converter.BookingDraftToResponse(draft, tests, u.cfg.HomeVisitFee), nil
}

func (u *bookingUsecase) UpdateVisit(ctx context.Context, session *entity.Session, req *dto.VisitStepRequest) (*dto.BookingDraftResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := draft.SetVisit(req.HomeVisit, req.CollectionAddress, req.AppointmentTime); err != nil {
		return nil, err
	}
	if err := u.save(ctx, session, draft); err != nil {
		return nil, err
	}
	return u.respond(ctx, session, draft)
}

func (u *bookingUsecase) Back(ctx context.Context, session *entity.Session) (*dto.BookingDraftResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := draft.Back(); err != nil {
		return nil, err
	}
	if err := u.save(ctx, session, draft); err != nil {
		return nil, err
	}
	return u.respond(ctx, session, draft)
}

// Submit books the draft. The draft is kept when the API rejects the
// booking so the patient can retry without re-entering anything.
func (u *bookingUsecase) Submit(ctx context.Context, session *entity.Session) (*dto.BookingSubmitResponse, error) {
	draft, err := u.draft(ctx, session)
	if err != nil {
		return nil, err
	}

	req, err := draft.ToRequest(u.cfg.Location)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.Book(ctx, session.APIToken, req)
	if err != nil {
		u.log.Warnf("Failed to book appointment: %+v", err)
		if mapped := upstream("book appointment", err); errors.Is(mapped, ErrSessionExpired) {
			return nil, mapped
		}
		return nil, ErrBookingFailed
	}

	if err := u.draftRepo.Delete(ctx, session.ID); err != nil {
		u.log.Warnf("Failed to delete booking draft: %+v", err)
	}
	if err := u.cache.Invalidate(ctx, service.KeyAppointments); err != nil {
		u.log.Warnf("Failed to invalidate appointments: %+v", err)
	}

	metadata := entity.JSON{
		"test_ids":   req.TestIDs,
		"home_visit": req.IsHomeVisit,
		"mode":       string(draft.Mode),
	}
	if appointment != nil && appointment.ID != 0 {
		metadata["appointment_id"] = appointment.ID
	}
	if err := u.audit.Record(ctx, session, entity.AuditActionBookingSubmit, metadata); err != nil {
		u.log.Warnf("Failed to audit booking: %+v", err)
	}

	response := &dto.BookingSubmitResponse{Redirect: bookingRedirect}
	if appointment != nil && appointment.ID != 0 {
		rendered := converter.AppointmentToResponse(appointment, u.cfg.Location, false)
		response.Appointment = &rendered
	}
	return response, nil
}

func (u *bookingUsecase) Discard(ctx context.Context, session *entity.Session) error {
	if err := u.draftRepo.Delete(ctx, session.ID); err != nil {
		u.log.Warnf("Failed to discard booking draft: %+v", err)
		return err
	}
	return nil
}

// IsDraftError reports a wizard rule violation, answered as 422.
func IsDraftError(err error) bool {
	for _, target := range []error{
		entity.ErrPatientDetailsIncomplete,
		entity.ErrInvalidPatientAge,
		entity.ErrNoTestsSelected,
		entity.ErrTestNotBookable,
		entity.ErrAddressRequired,
		entity.ErrTimeRequired,
		entity.ErrInvalidTime,
		entity.ErrWrongStep,
		entity.ErrFirstStep,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
