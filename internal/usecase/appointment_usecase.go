package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medcenter-booking/config"
	"medcenter-booking/internal/converter"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/domain/repository"
	"medcenter-booking/internal/infrastructure/metrics"
	"medcenter-booking/internal/infrastructure/payment"
	"medcenter-booking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentInPast   = errors.New("appointment date and time must be in the future")
	ErrDepartmentRequired  = errors.New("department is required for in-center appointments")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrServiceNotFound     = errors.New("one or more selected services are not available")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
	ErrUserNotInContext    = errors.New("user not found in context")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetPaymentStatusByTxRef(ctx context.Context, txRef string) (*dto.PaymentStatusResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	departmentRepo  repository.DepartmentRepository
	serviceRepo     repository.ServiceRepository
	auditService    service.AuditService
	gateway         payment.Gateway
	paymentCfg      config.PaymentConfig
	bookingCfg      config.BookingConfig
	location        *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	departmentRepo repository.DepartmentRepository,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
	gateway payment.Gateway,
	cfg *config.Config,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		departmentRepo:  departmentRepo,
		serviceRepo:     serviceRepo,
		auditService:    auditService,
		gateway:         gateway,
		paymentCfg:      cfg.Payment,
		bookingCfg:      cfg.Booking,
		location:        cfg.App.Location(),
		now:             time.Now,
	}
}

// CreateAppointment stores the patient, the appointment and its selected
// services, then opens a checkout session. Everything runs in one transaction
// so a gateway failure leaves no pending appointment behind.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", req.AppointmentDate+" "+req.AppointmentTime, u.location)
	if err != nil {
		return nil, fmt.Errorf("parse appointment date: %w", err)
	}
	if !scheduledAt.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	mode := entity.AppointmentMode(req.AppointmentMode)
	if mode == entity.AppointmentModeCenter && req.DepartmentID == nil {
		return nil, ErrDepartmentRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var department *entity.Department
	if req.DepartmentID != nil {
		department, err = u.departmentRepo.FindByID(tx, *req.DepartmentID)
		if err != nil {
			u.log.Warnf("Failed to find department %d: %+v", *req.DepartmentID, err)
			return nil, err
		}
		if department == nil {
			return nil, ErrDepartmentNotFound
		}
	}

	serviceIDs := uniqueIDs(req.ServiceIDs)
	services, err := u.serviceRepo.FindActiveByIDs(tx, serviceIDs)
	if err != nil {
		u.log.Warnf("Failed to find services %v: %+v", serviceIDs, err)
		return nil, err
	}
	if len(services) != len(serviceIDs) {
		return nil, ErrServiceNotFound
	}

	total := computeTotal(u.bookingCfg.RegistrationFee, mode, department, services)

	patient, err := u.findOrCreatePatient(tx, req)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		AppointmentDate: time.Date(scheduledAt.Year(), scheduledAt.Month(), scheduledAt.Day(), 0, 0, 0, 0, time.UTC),
		AppointmentTime: req.AppointmentTime,
		Mode:            mode,
		BasePrice:       u.bookingCfg.RegistrationFee,
		TotalAmount:     total,
		PaymentStatus:   entity.PaymentStatusPending,
		TxRef:           newTxRef(u.now()),
		OtherServices:   strings.TrimSpace(req.OtherServices),
	}
	if department != nil {
		appointment.DepartmentID = &department.ID
	}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		appointment.UserID = &userID
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	selections := make([]entity.AppointmentService, len(services))
	for i, svc := range services {
		selections[i] = entity.AppointmentService{
			AppointmentID: appointment.ID,
			ServiceID:     svc.ID,
			Price:         svc.Price,
		}
	}
	if err := u.appointmentRepo.CreateServices(tx, selections); err != nil {
		u.log.Warnf("Failed to create service selections for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, appointment.UserID, entity.AuditActionAppointmentCreate, appointment.ID.String(), entity.JSON{
		"tx_ref":       appointment.TxRef,
		"total_amount": total.StringFixed(2),
		"mode":         string(mode),
	}); err != nil {
		return nil, err
	}

	checkout, err := u.gateway.Initialize(ctx, &payment.InitializeRequest{
		Amount:      total,
		Currency:    u.paymentCfg.Currency,
		Payer:       payerFromName(req.FullName, req.Email, req.Phone),
		TxRef:       appointment.TxRef,
		CallbackURL: u.paymentCfg.CallbackURL,
		ReturnURL:   u.paymentCfg.ReturnURL,
		Title:       "Appointment",
		Description: "Appointment booking payment",
	})
	if err != nil {
		u.log.WithFields(logrus.Fields{
			"tx_ref":         appointment.TxRef,
			"appointment_id": appointment.ID,
		}).Errorf("Failed to initialize payment: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.WithField("tx_ref", appointment.TxRef).Errorf("Failed to commit appointment after checkout was opened: %+v", err)
		return nil, err
	}

	metrics.AppointmentsCreated.WithLabelValues(string(mode)).Inc()
	u.log.WithFields(logrus.Fields{
		"tx_ref":         appointment.TxRef,
		"appointment_id": appointment.ID,
		"total_amount":   total.StringFixed(2),
	}).Info("Appointment created")

	appointment.Patient = *patient
	appointment.Department = department
	appointment.Services = selections
	for i := range appointment.Services {
		appointment.Services[i].Service = services[i]
	}

	return &dto.CreateAppointmentResponse{
		Appointment: *converter.AppointmentToResponse(appointment),
		CheckoutURL: checkout.CheckoutURL,
	}, nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	appointments, err := u.appointmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetPaymentStatusByTxRef(ctx context.Context, txRef string) (*dto.PaymentStatusResponse, error) {
	appointment, err := u.appointmentRepo.FindByTxRef(u.db.WithContext(ctx), txRef)
	if err != nil {
		u.log.WithField("tx_ref", txRef).Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return &dto.PaymentStatusResponse{PaymentStatus: string(appointment.PaymentStatus)}, nil
}

// findOrCreatePatient reuses the patient registered under the given MRN.
// Without an MRN every booking registers a new patient.
func (u *appointmentUsecase) findOrCreatePatient(tx *gorm.DB, req *dto.CreateAppointmentRequest) (*entity.Patient, error) {
	mrn := strings.TrimSpace(req.MRN)
	if mrn != "" {
		existing, err := u.patientRepo.FindByMRN(tx, mrn)
		if err != nil {
			u.log.Warnf("Failed to find patient by MRN: %+v", err)
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	patient := &entity.Patient{
		FullName:    strings.TrimSpace(req.FullName),
		Age:         *req.Age,
		Sex:         req.Sex,
		PhoneNumber: req.Phone,
		Email:       strings.ToLower(req.Email),
		Address:     req.Address,
	}
	if mrn != "" {
		patient.MRN = &mrn
	}

	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	return patient, nil
}

// computeTotal is the registration fee plus every selected service, plus the
// department price when the patient comes to the center.
func computeTotal(fee decimal.Decimal, mode entity.AppointmentMode, department *entity.Department, services []entity.Service) decimal.Decimal {
	total := fee
	for _, svc := range services {
		total = total.Add(svc.Price)
	}
	if mode == entity.AppointmentModeCenter && department != nil {
		total = total.Add(department.Price)
	}
	return total
}

func newTxRef(now time.Time) string {
	return fmt.Sprintf("TX-%d-%s", now.UnixMilli(), uuid.NewString())
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// payerFromName splits a full name into the first and last name the gateway expects
func payerFromName(fullName, email, phone string) payment.Payer {
	parts := strings.Fields(fullName)
	payer := payment.Payer{Email: email, Phone: phone, FirstName: "N/A", LastName: "N/A"}
	if len(parts) > 0 {
		payer.FirstName = parts[0]
	}
	if len(parts) > 1 {
		payer.LastName = strings.Join(parts[1:], " ")
	}
	return payer
}
