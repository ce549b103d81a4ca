package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medcenter-booking/config"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/domain/repository"
	"medcenter-booking/internal/infrastructure/invoice"
	"medcenter-booking/internal/infrastructure/metrics"
	"medcenter-booking/internal/infrastructure/payment"
	"medcenter-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotPending = errors.New("appointment is not awaiting payment")
	ErrTxRefInUse            = errors.New("tx_ref already belongs to another appointment")
	ErrAmountMismatch        = errors.New("payment amount does not match the appointment total")
)

// ReconcileOutcome describes what a webhook delivery did to the appointment
type ReconcileOutcome string

const (
	OutcomeTransitioned ReconcileOutcome = "transitioned"
	OutcomeUnchanged    ReconcileOutcome = "unchanged"
	OutcomeConflict     ReconcileOutcome = "conflict"
	OutcomeNotFound     ReconcileOutcome = "not_found"
	OutcomeIgnored      ReconcileOutcome = "ignored"
	OutcomeError        ReconcileOutcome = "error"
)

// ReconcileResult separates the durable state change from the email side
// effect: NotificationErr may be set while the status change is committed.
type ReconcileResult struct {
	TxRef           string
	AppointmentID   uuid.UUID
	Status          entity.PaymentStatus
	Outcome         ReconcileOutcome
	Transitioned    bool
	NotificationErr error
}

// Acknowledgement is the plain text body returned to the gateway
func (r *ReconcileResult) Acknowledgement() string {
	switch {
	case r.Outcome == OutcomeIgnored || r.Outcome == OutcomeNotFound:
		return "Webhook ignored"
	case r.Outcome == OutcomeError || r.NotificationErr != nil:
		return "Webhook processed with errors"
	default:
		return "Webhook processed"
	}
}

type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)
	// HandleWebhook always returns a result. A non-nil error means the
	// appointment state could not be reconciled.
	HandleWebhook(ctx context.Context, payload *dto.WebhookPayload) (*ReconcileResult, error)
}

type paymentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	auditService        service.AuditService
	notificationService service.NotificationService
	gateway             payment.Gateway
	paymentCfg          config.PaymentConfig
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	gateway payment.Gateway,
	cfg *config.Config,
) PaymentUsecase {
	return &paymentUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		auditService:        auditService,
		notificationService: notificationService,
		gateway:             gateway,
		paymentCfg:          cfg.Payment,
	}
}

// InitiatePayment opens a new checkout session for a pending appointment under
// the caller supplied tx_ref.
func (u *paymentUsecase) InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}

	db := u.db.WithContext(ctx)
	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsPending() {
		return nil, ErrAppointmentNotPending
	}

	owner, err := u.appointmentRepo.FindByTxRef(db, req.TxRef)
	if err != nil {
		u.log.WithField("tx_ref", req.TxRef).Warnf("Failed to find appointment by tx_ref: %+v", err)
		return nil, err
	}
	if owner != nil && owner.ID != appointment.ID {
		return nil, ErrTxRefInUse
	}

	logger := u.log.WithFields(logrus.Fields{"tx_ref": req.TxRef, "appointment_id": appointment.ID})
	// Checkout always charges the stored total.
	if !req.Amount.Equal(appointment.TotalAmount) {
		logger.Warnf("Payment amount %s differs from appointment total %s", req.Amount.StringFixed(2), appointment.TotalAmount.StringFixed(2))
		return nil, ErrAmountMismatch
	}

	checkout, err := u.gateway.Initialize(ctx, &payment.InitializeRequest{
		Amount:      appointment.TotalAmount,
		Currency:    u.paymentCfg.Currency,
		Payer:       payerFromName(req.Name, req.Email, req.Phone),
		TxRef:       req.TxRef,
		CallbackURL: u.paymentCfg.CallbackURL,
		ReturnURL:   u.paymentCfg.ReturnURL,
		Title:       "Appointment",
		Description: "Appointment booking payment",
	})
	if err != nil {
		logger.Errorf("Failed to initialize payment: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		rows, err := u.appointmentRepo.UpdateTxRef(tx, appointment.ID, req.TxRef)
		if err != nil {
			if isDuplicateKeyError(err, "tx_ref") {
				return ErrTxRefInUse
			}
			return err
		}
		if rows == 0 {
			return ErrAppointmentNotPending
		}

		return u.auditService.Record(tx, appointment.UserID, entity.AuditActionPaymentInitiate, appointment.ID.String(), entity.JSON{
			"previous_tx_ref": appointment.TxRef,
			"tx_ref":          req.TxRef,
			"amount":          req.Amount.StringFixed(2),
		})
	})
	if err != nil {
		logger.Warnf("Failed to store tx_ref: %+v", err)
		return nil, err
	}

	return &dto.InitiatePaymentResponse{CheckoutURL: checkout.CheckoutURL}, nil
}

// HandleWebhook reconciles one gateway callback: verify, locate the
// appointment, move it out of Pending once, then notify. The verified status
// is authoritative; the status in the payload is only logged.
func (u *paymentUsecase) HandleWebhook(ctx context.Context, payload *dto.WebhookPayload) (*ReconcileResult, error) {
	result := &ReconcileResult{TxRef: strings.TrimSpace(payload.Reference())}
	defer func() {
		metrics.WebhookReconciliations.WithLabelValues(string(result.Outcome)).Inc()
	}()

	if result.TxRef == "" {
		u.log.Warn("Webhook received without tx_ref")
		result.Outcome = OutcomeIgnored
		return result, nil
	}
	logger := u.log.WithField("tx_ref", result.TxRef)

	verified, err := u.gateway.Verify(ctx, result.TxRef)
	if err != nil {
		logger.Errorf("Failed to verify transaction: %+v", err)
		result.Outcome = OutcomeError
		return result, fmt.Errorf("verify %s: %w", result.TxRef, err)
	}

	target := entity.PaymentStatusFailed
	if verified.Status == payment.StatusSuccess {
		target = entity.PaymentStatusCompleted
	}
	if payload.Status != "" && !strings.EqualFold(payload.Status, string(verified.Status)) {
		logger.Warnf("Webhook body status %q differs from verified status %q", payload.Status, verified.Status)
	}

	var appointment *entity.Appointment
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByTxRef(tx, result.TxRef)
		if err != nil || appointment == nil {
			return err
		}
		result.AppointmentID = appointment.ID

		rows, err := u.appointmentRepo.MarkPaymentStatus(tx, appointment.ID, target)
		if err != nil {
			return err
		}

		if rows == 1 {
			result.Transitioned = true
			result.Outcome = OutcomeTransitioned
			result.Status = target
			appointment.PaymentStatus = target
			return u.auditService.Record(tx, appointment.UserID, auditActionFor(target), appointment.ID.String(), entity.JSON{
				"tx_ref":          result.TxRef,
				"verified_status": string(verified.Status),
			})
		}

		current, err := u.appointmentRepo.FindByID(tx, appointment.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("appointment %s disappeared during reconciliation", appointment.ID)
		}
		appointment.PaymentStatus = current.PaymentStatus
		result.Status = current.PaymentStatus
		if current.PaymentStatus == target {
			result.Outcome = OutcomeUnchanged
		} else {
			result.Outcome = OutcomeConflict
		}
		return nil
	})
	if err != nil {
		logger.Errorf("Failed to reconcile payment: %+v", err)
		result.Outcome = OutcomeError
		result.Transitioned = false
		return result, err
	}

	if appointment == nil {
		logger.Warn("Webhook for unknown tx_ref: appointment not found")
		result.Outcome = OutcomeNotFound
		return result, nil
	}

	logger = logger.WithField("appointment_id", appointment.ID)
	switch result.Outcome {
	case OutcomeTransitioned:
		logger.Infof("Payment status changed to %s", result.Status)
	case OutcomeUnchanged:
		logger.Infof("Duplicate webhook, payment already %s", result.Status)
	case OutcomeConflict:
		logger.Warnf("Verified status %s conflicts with recorded status %s, leaving it unchanged", target, result.Status)
	}

	if result.Status == entity.PaymentStatusCompleted {
		if err := u.notificationService.SendPaymentConfirmation(ctx, paymentConfirmationFor(appointment)); err != nil {
			logger.Warnf("Payment confirmation not delivered: %+v", err)
			result.NotificationErr = err
		}
	}

	return result, nil
}

func auditActionFor(status entity.PaymentStatus) string {
	if status == entity.PaymentStatusCompleted {
		return entity.AuditActionPaymentCompleted
	}
	return entity.AuditActionPaymentFailed
}

func paymentConfirmationFor(appointment *entity.Appointment) *service.PaymentConfirmation {
	name := strings.TrimSpace(appointment.Patient.FullName)
	if name == "" {
		name = "Unknown"
	}
	date := appointment.AppointmentDate

	return &service.PaymentConfirmation{
		Name:            name,
		Email:           appointment.Patient.Email,
		Phone:           appointment.Patient.PhoneNumber,
		Amount:          appointment.TotalAmount,
		Status:          string(appointment.PaymentStatus),
		TxRef:           appointment.TxRef,
		AppointmentDate: &date,
		AppointmentTime: appointment.AppointmentTime,
		Items:           invoiceItems(appointment),
	}
}

// invoiceItems lists the registration fee, the department charge for
// in-center visits and each selected service at its booked price. The
// department charge is derived from the stored total so the lines always add up.
func invoiceItems(appointment *entity.Appointment) []invoice.LineItem {
	items := []invoice.LineItem{{Description: "Registration fee", Amount: appointment.BasePrice}}

	serviceItems := make([]invoice.LineItem, 0, len(appointment.Services))
	remainder := appointment.TotalAmount.Sub(appointment.BasePrice)
	for _, selected := range appointment.Services {
		name := selected.Service.Name
		if name == "" {
			name = fmt.Sprintf("Service #%d", selected.ServiceID)
		}
		serviceItems = append(serviceItems, invoice.LineItem{Description: name, Amount: selected.Price})
		remainder = remainder.Sub(selected.Price)
	}

	if appointment.Mode == entity.AppointmentModeCenter && remainder.IsPositive() {
		label := "Department fee"
		if appointment.Department != nil {
			label = "Department: " + appointment.Department.Name
		}
		items = append(items, invoice.LineItem{Description: label, Amount: remainder})
	}

	return append(items, serviceItems...)
}
