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

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("status change not allowed")
	ErrStatusUpdateFailed  = errors.New("Failed to update status")
)

const (
	dashboardUpcomingLimit = 3
	dashboardRecentLimit   = 5

	listViewAdmin = "admin_appointments"
)

type AppointmentUsecase interface {
	GetMyAppointments(ctx context.Context, session *entity.Session) (*dto.AppointmentListResponse, error)
	GetPatientDashboard(ctx context.Context, session *entity.Session) (*dto.PatientDashboardResponse, error)
	GetAdminAppointments(ctx context.Context, session *entity.Session, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, *entity.Page, error)
	GetAdminDashboard(ctx context.Context, session *entity.Session) (*dto.AdminDashboardResponse, error)
	GetActions(ctx context.Context, session *entity.Session, id int64) (*dto.AppointmentActionsResponse, error)
	UpdateStatus(ctx context.Context, session *entity.Session, id int64, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	listStateRepo   repository.ListStateRepository
	cache           *service.QueryCache
	audit           service.AuditService
	loc             *time.Location
	profileTTL      time.Duration
	collectionTTL   time.Duration
	sessionTTL      time.Duration
	pageSize        int
	now             func() time.Time
}

type AppointmentUsecaseConfig struct {
	Location      *time.Location
	ProfileTTL    time.Duration
	CollectionTTL time.Duration
	SessionTTL    time.Duration
	PageSize      int
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	listStateRepo repository.ListStateRepository,
	cache *service.QueryCache,
	audit service.AuditService,
	cfg AppointmentUsecaseConfig,
) AppointmentUsecase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		listStateRepo:   listStateRepo,
		cache:           cache,
		audit:           audit,
		loc:             loc,
		profileTTL:      cfg.ProfileTTL,
		collectionTTL:   cfg.CollectionTTL,
		sessionTTL:      cfg.SessionTTL,
		pageSize:        cfg.PageSize,
		now:             time.Now,
	}
}

func (u *appointmentUsecase) loadMine(ctx context.Context, session *entity.Session) ([]entity.Appointment, error) {
	var list []entity.Appointment
	err := u.cache.Fetch(ctx, service.MineKey(session.ID), u.collectionTTL, func(ctx context.Context) (interface{}, error) {
		return u.appointmentRepo.FindMine(ctx, session.APIToken)
	}, &list)
	if err != nil {
		return nil, upstream("load appointments", err)
	}
	return list, nil
}

func (u *appointmentUsecase) loadAll(ctx context.Context, session *entity.Session) ([]entity.Appointment, error) {
	var list []entity.Appointment
	err := u.cache.Fetch(ctx, service.KeyAdminAppointments, u.collectionTTL, func(ctx context.Context) (interface{}, error) {
		return u.appointmentRepo.FindAll(ctx, session.APIToken)
	}, &list)
	if err != nil {
		return nil, upstream("load appointments", err)
	}
	return list, nil
}

func (u *appointmentUsecase) loadUsers(ctx context.Context, session *entity.Session) ([]entity.User, error) {
	var users []entity.User
	err := u.cache.Fetch(ctx, service.KeyUsers, u.collectionTTL, func(ctx context.Context) (interface{}, error) {
		return u.userRepo.FindAll(ctx, session.APIToken)
	}, &users)
	if err != nil {
		return nil, upstream("load users", err)
	}
	return users, nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, session *entity.Session) (*dto.AppointmentListResponse, error) {
	list, err := u.loadMine(ctx, session)
	if err != nil {
		u.log.Warnf("Failed to load appointment history: %+v", err)
		return nil, err
	}

	entity.SortAppointments(list, entity.SortNewestFirst)
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(list, u.loc, false),
		Status:       entity.StatusFilterAll,
		Sort:         string(entity.SortNewestFirst),
		Total:        len(list),
	}, nil
}

func (u *appointmentUsecase) GetPatientDashboard(ctx context.Context, session *entity.Session) (*dto.PatientDashboardResponse, error) {
	var (
		profile *entity.User
		list    []entity.Appointment
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		profile, err = loadProfile(ctx, u.cache, u.userRepo, session, u.profileTTL)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		list, err = u.loadMine(ctx, session)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load patient dashboard: %+v", err)
		return nil, err
	}

	entity.SortAppointments(list, entity.SortNewestFirst)
	upcoming := make([]entity.Appointment, 0, dashboardUpcomingLimit)
	count := 0
	for i := range list {
		if !list[i].IsUpcoming() {
			continue
		}
		count++
		if len(upcoming) < dashboardUpcomingLimit {
			upcoming = append(upcoming, list[i])
		}
	}

	return &dto.PatientDashboardResponse{
		GreetingName:      profile.DisplayName(),
		TotalAppointments: len(list),
		UpcomingCount:     count,
		Upcoming:          converter.AppointmentsToResponses(upcoming, u.loc, false),
	}, nil
}

// GetAdminAppointments filters the full queue oldest first. The query and
// status are remembered per session so a changed filter restarts at page 1.
func (u *appointmentUsecase) GetAdminAppointments(ctx context.Context, session *entity.Session, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, *entity.Page, error) {
	list, err := u.loadAll(ctx, session)
	if err != nil {
		u.log.Warnf("Failed to load admin appointments: %+v", err)
		return nil, nil, err
	}

	filter := entity.AppointmentFilter{Query: req.Query, Status: req.Status, Sort: entity.SortOldestFirst}

	state, err := u.listStateRepo.Find(ctx, session.ID, listViewAdmin)
	if err != nil {
		u.log.Warnf("Failed to load list state: %+v", err)
	}
	if state == nil {
		state = &entity.ListState{}
	}
	page := state.Apply(filter, req.Page)
	if err := u.listStateRepo.Save(ctx, session.ID, listViewAdmin, state, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save list state: %+v", err)
	}

	filtered := filter.Apply(list)
	items, meta := entity.Paginate(filtered, page, u.pageSize)

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(items, u.loc, true),
		Query:        state.Query,
		Status:       state.Status,
		Sort:         string(entity.SortOldestFirst),
		Total:        meta.Total,
	}, &meta, nil
}

func (u *appointmentUsecase) GetAdminDashboard(ctx context.Context, session *entity.Session) (*dto.AdminDashboardResponse, error) {
	var (
		list  []entity.Appointment
		users []entity.User
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		list, err = u.loadAll(ctx, session)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		users, err = u.loadUsers(ctx, session)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load admin dashboard: %+v", err)
		return nil, err
	}

	today := u.now().In(u.loc).Format("2006-01-02")
	response := &dto.AdminDashboardResponse{}
	for i := range list {
		if list[i].Status == entity.AppointmentStatusPending {
			response.PendingCount++
		}
		if at, ok := entity.ParseAppointmentTime(list[i].AppointmentTime, u.loc); ok && at.In(u.loc).Format("2006-01-02") == today {
			response.TodayCount++
		}
	}
	response.TotalPatients = countPatients(users)

	entity.SortAppointments(list, entity.SortNewestFirst)
	if len(list) > dashboardRecentLimit {
		list = list[:dashboardRecentLimit]
	}
	response.Recent = converter.AppointmentsToResponses(list, u.loc, true)

	return response, nil
}

func (u *appointmentUsecase) find(ctx context.Context, session *entity.Session, id int64) (*entity.Appointment, error) {
	list, err := u.loadAll(ctx, session)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (u *appointmentUsecase) GetActions(ctx context.Context, session *entity.Session, id int64) (*dto.AppointmentActionsResponse, error) {
	appointment, err := u.find(ctx, session, id)
	if err != nil {
		if !errors.Is(err, ErrAppointmentNotFound) {
			u.log.Warnf("Failed to load appointment %d: %+v", id, err)
		}
		return nil, err
	}

	return &dto.AppointmentActionsResponse{
		AppointmentID: appointment.ID,
		Status:        string(appointment.Status),
		Actions:       converter.StatusActionsToResponses(appointment.Status.Actions()),
	}, nil
}

// UpdateStatus checks the transition against the cached status before
// calling the API. The cache is only invalidated after the API accepts it.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, session *entity.Session, id int64, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.find(ctx, session, id)
	if err != nil {
		if !errors.Is(err, ErrAppointmentNotFound) {
			u.log.Warnf("Failed to load appointment %d: %+v", id, err)
		}
		return nil, err
	}

	next, ok := entity.ParseAppointmentStatus(req.Status)
	if !ok || !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	updated, err := u.appointmentRepo.UpdateStatus(ctx, session.APIToken, id, next, req.ReportURL)
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %d: %+v", id, err)
		if mapped := upstream("update status", err); errors.Is(mapped, ErrSessionExpired) {
			return nil, mapped
		}
		return nil, ErrStatusUpdateFailed
	}

	if err := u.cache.Invalidate(ctx, service.KeyAppointments); err != nil {
		u.log.Warnf("Failed to invalidate appointments: %+v", err)
	}

	if err := u.audit.Record(ctx, session, entity.AuditActionStatus(next), entity.JSON{
		"appointment_id": id,
		"from":           string(appointment.Status),
		"to":             string(next),
	}); err != nil {
		u.log.Warnf("Failed to audit status change: %+v", err)
	}

	// The API may answer with an empty body
	if updated == nil || updated.ID == 0 {
		appointment.Status = next
		if req.ReportURL != nil {
			appointment.ReportURL = req.ReportURL
		}
		updated = appointment
	}
	response := converter.AppointmentToResponse(updated, u.loc, true)
	return &response, nil
}

func countPatients(users []entity.User) int {
	count := 0
	for i := range users {
		if users[i].Roles.Has(entity.RoleTagUser) {
			count++
		}
	}
	return count
}
