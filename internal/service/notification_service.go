package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"medcenter-booking/config"
	"medcenter-booking/internal/infrastructure/invoice"
	"medcenter-booking/internal/infrastructure/mailer"
	"medcenter-booking/internal/infrastructure/metrics"
	"medcenter-booking/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

var (
	ErrInvalidNotification = errors.New("invalid notification")
)

const (
	notificationKindPayment = "payment"
	notificationKindBooking = "booking"
	notificationKindContact = "contact"
)

type PaymentConfirmation struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone"`
	Amount          decimal.Decimal `json:"amount" validate:"gt=0"`
	Status          string          `json:"status" validate:"required"`
	TxRef           string          `json:"tx_ref" validate:"required"`
	AppointmentDate *time.Time      `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	Items           []invoice.LineItem
}

type BookingConfirmation struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone"`
	TotalAmount     decimal.Decimal `json:"totalAmount" validate:"gt=0"`
	AppointmentID   string          `json:"appointmentId" validate:"required"`
	AppointmentDate *time.Time      `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	Items           []invoice.LineItem
}

type ContactNotification struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Message  string `json:"message" validate:"required"`
	// Acknowledge also sends a receipt to the sender
	Acknowledge bool `json:"-"`
}

type NotificationOptions struct {
	AdminEmail string
	Currency   string
	ClinicName string
	DedupTTL   time.Duration
}

// NotificationService sends confirmation emails. Payment and booking
// confirmations are sent at most once per key within the dedup TTL.
type NotificationService interface {
	SendPaymentConfirmation(ctx context.Context, n *PaymentConfirmation) error
	SendBookingConfirmation(ctx context.Context, n *BookingConfirmation) error
	SendContactNotification(ctx context.Context, n *ContactNotification) error
}

type notificationService struct {
	log       *logrus.Logger
	validator *validator.CustomValidator
	dedup     DedupStore
	mailer    mailer.Mailer
	renderer  invoice.Renderer
	opts      NotificationOptions
}

func NewNotificationService(
	log *logrus.Logger,
	validator *validator.CustomValidator,
	dedup DedupStore,
	mailer mailer.Mailer,
	renderer invoice.Renderer,
	opts NotificationOptions,
) NotificationService {
	if opts.DedupTTL <= 0 || opts.DedupTTL > config.MaxDedupTTL {
		opts.DedupTTL = config.MaxDedupTTL
	}
	return &notificationService{
		log:       log,
		validator: validator,
		dedup:     dedup,
		mailer:    mailer,
		renderer:  renderer,
		opts:      opts,
	}
}

type confirmationView struct {
	Name        string
	Email       string
	Phone       string
	Reference   string
	Status      string
	Appointment string
	Amount      string
	Currency    string
	ClinicName  string
}

func (s *notificationService) SendPaymentConfirmation(ctx context.Context, n *PaymentConfirmation) error {
	key := PaymentDedupKey(n.TxRef)
	logger := s.log.WithField("tx_ref", n.TxRef)

	if s.alreadySent(ctx, logger, key) {
		metrics.NotificationsSent.WithLabelValues(notificationKindPayment, "skipped").Inc()
		return nil
	}

	if err := s.validator.Validate(n); err != nil {
		metrics.NotificationsSent.WithLabelValues(notificationKindPayment, "invalid").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	release, claimed := s.claim(ctx, logger, key)
	if !claimed {
		metrics.NotificationsSent.WithLabelValues(notificationKindPayment, "skipped").Inc()
		return nil
	}
	sent := false
	defer func() {
		if !sent {
			release()
		}
	}()

	doc, err := s.renderer.Render(&invoice.Invoice{
		Number:          n.TxRef,
		IssuedAt:        time.Now(),
		Status:          n.Status,
		ClientName:      n.Name,
		ClientEmail:     n.Email,
		ClientPhone:     n.Phone,
		AppointmentDate: dateOrZero(n.AppointmentDate),
		AppointmentTime: n.AppointmentTime,
		Items:           n.Items,
		Total:           n.Amount,
		Currency:        s.opts.Currency,
	})
	if err != nil {
		logger.Errorf("Failed to render invoice: %+v", err)
		metrics.NotificationsSent.WithLabelValues(notificationKindPayment, "failed").Inc()
		return err
	}

	view := confirmationView{
		Name:        n.Name,
		Email:       n.Email,
		Phone:       n.Phone,
		Reference:   n.TxRef,
		Status:      n.Status,
		Appointment: describeAppointment(n.AppointmentDate, n.AppointmentTime),
		Amount:      n.Amount.StringFixed(2),
		Currency:    s.opts.Currency,
		ClinicName:  s.opts.ClinicName,
	}
	attachment := mailer.Attachment{Filename: "receipt-" + n.TxRef + ".pdf", ContentType: "application/pdf", Data: doc}

	messages, err := s.buildMessages(n.Email, "Payment Confirmation", "Payment received: "+n.Name, paymentPatientTmpl, paymentAdminTmpl, view, attachment)
	if err != nil {
		return err
	}

	if err := s.sendAll(ctx, logger, notificationKindPayment, messages); err != nil {
		return err
	}

	sent = true
	s.remember(ctx, logger, key)
	return nil
}

func (s *notificationService) SendBookingConfirmation(ctx context.Context, n *BookingConfirmation) error {
	key := BookingDedupKey(n.AppointmentID)
	logger := s.log.WithField("appointment_id", n.AppointmentID)

	if s.alreadySent(ctx, logger, key) {
		metrics.NotificationsSent.WithLabelValues(notificationKindBooking, "skipped").Inc()
		return nil
	}

	if err := s.validator.Validate(n); err != nil {
		metrics.NotificationsSent.WithLabelValues(notificationKindBooking, "invalid").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	release, claimed := s.claim(ctx, logger, key)
	if !claimed {
		metrics.NotificationsSent.WithLabelValues(notificationKindBooking, "skipped").Inc()
		return nil
	}
	sent := false
	defer func() {
		if !sent {
			release()
		}
	}()

	doc, err := s.renderer.Render(&invoice.Invoice{
		Number:          n.AppointmentID,
		IssuedAt:        time.Now(),
		Status:          "Booked",
		ClientName:      n.Name,
		ClientEmail:     n.Email,
		ClientPhone:     n.Phone,
		AppointmentDate: dateOrZero(n.AppointmentDate),
		AppointmentTime: n.AppointmentTime,
		Items:           n.Items,
		Total:           n.TotalAmount,
		Currency:        s.opts.Currency,
	})
	if err != nil {
		logger.Errorf("Failed to render booking summary: %+v", err)
		metrics.NotificationsSent.WithLabelValues(notificationKindBooking, "failed").Inc()
		return err
	}

	view := confirmationView{
		Name:        n.Name,
		Email:       n.Email,
		Phone:       n.Phone,
		Reference:   n.AppointmentID,
		Appointment: describeAppointment(n.AppointmentDate, n.AppointmentTime),
		Amount:      n.TotalAmount.StringFixed(2),
		Currency:    s.opts.Currency,
		ClinicName:  s.opts.ClinicName,
	}
	attachment := mailer.Attachment{Filename: "booking-" + n.AppointmentID + ".pdf", ContentType: "application/pdf", Data: doc}

	messages, err := s.buildMessages(n.Email, "Booking Confirmation", "New booking: "+n.Name, bookingPatientTmpl, bookingAdminTmpl, view, attachment)
	if err != nil {
		return err
	}

	if err := s.sendAll(ctx, logger, notificationKindBooking, messages); err != nil {
		return err
	}

	sent = true
	s.remember(ctx, logger, key)
	return nil
}

func (s *notificationService) SendContactNotification(ctx context.Context, n *ContactNotification) error {
	logger := s.log.WithField("email", n.Email)

	if err := s.validator.Validate(n); err != nil {
		metrics.NotificationsSent.WithLabelValues(notificationKindContact, "invalid").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	var messages []*mailer.Message
	if s.opts.AdminEmail != "" {
		body, err := renderHTML(contactAdminTmpl, n)
		if err != nil {
			return err
		}
		messages = append(messages, &mailer.Message{
			To:       []string{s.opts.AdminEmail},
			Subject:  "New contact message from " + n.FullName,
			HTMLBody: body,
		})
	} else {
		logger.Warn("ADMIN_EMAIL is not configured, skipping admin copy")
	}

	if n.Acknowledge {
		body, err := renderHTML(contactAckTmpl, n)
		if err != nil {
			return err
		}
		messages = append(messages, &mailer.Message{
			To:       []string{n.Email},
			Subject:  "We received your message",
			HTMLBody: body,
		})
	}

	return s.sendAll(ctx, logger, notificationKindContact, messages)
}

// alreadySent treats a dedup lookup failure as "not sent": a duplicate
// email is preferred over a lost confirmation.
func (s *notificationService) alreadySent(ctx context.Context, logger *logrus.Entry, key string) bool {
	sent, err := s.dedup.Exists(ctx, key)
	if err != nil {
		logger.Warnf("Dedup lookup failed for %s: %+v", key, err)
		return false
	}
	if sent {
		logger.Infof("Notification %s already sent, skipping", key)
	}
	return sent
}

// claim reserves key for the duration of one send. A concurrent delivery of
// the same key gets claimed=false. When the store is unreachable the send goes
// ahead unreserved.
func (s *notificationService) claim(ctx context.Context, logger *logrus.Entry, key string) (release func(), claimed bool) {
	ok, err := s.dedup.Reserve(ctx, key, reservationTTL(s.opts.DedupTTL))
	if err != nil {
		logger.Warnf("Dedup reservation failed for %s: %+v", key, err)
		return func() {}, true
	}
	if !ok {
		logger.Infof("Notification %s is already being sent, skipping", key)
		return nil, false
	}
	return func() {
		if err := s.dedup.Release(context.WithoutCancel(ctx), key); err != nil {
			logger.Warnf("Failed to release dedup reservation %s: %+v", key, err)
		}
	}, true
}

// maxReservationTTL bounds how long a crashed send can block retries of the same key
const maxReservationTTL = 5 * time.Minute

func reservationTTL(dedupTTL time.Duration) time.Duration {
	if dedupTTL < maxReservationTTL {
		return dedupTTL
	}
	return maxReservationTTL
}

func (s *notificationService) remember(ctx context.Context, logger *logrus.Entry, key string) {
	if err := s.dedup.Set(ctx, key, s.opts.DedupTTL); err != nil {
		logger.Warnf("Failed to store dedup entry %s: %+v", key, err)
	}
}

func (s *notificationService) buildMessages(
	recipient, patientSubject, adminSubject string,
	patientTmpl, adminTmpl *template.Template,
	view confirmationView,
	attachment mailer.Attachment,
) ([]*mailer.Message, error) {
	patientBody, err := renderHTML(patientTmpl, view)
	if err != nil {
		return nil, err
	}
	messages := []*mailer.Message{{
		To:          []string{recipient},
		Subject:     patientSubject,
		HTMLBody:    patientBody,
		Attachments: []mailer.Attachment{attachment},
	}}

	if s.opts.AdminEmail == "" {
		s.log.Warn("ADMIN_EMAIL is not configured, skipping admin copy")
		return messages, nil
	}

	adminBody, err := renderHTML(adminTmpl, view)
	if err != nil {
		return nil, err
	}
	return append(messages, &mailer.Message{
		To:          []string{s.opts.AdminEmail},
		Subject:     adminSubject,
		HTMLBody:    adminBody,
		Attachments: []mailer.Attachment{attachment},
	}), nil
}

// sendAll sends every message concurrently and waits for all of them.
// Each failure is logged; the returned error joins all of them.
func (s *notificationService) sendAll(ctx context.Context, logger *logrus.Entry, kind string, messages []*mailer.Message) error {
	p := pool.New().WithErrors()
	for _, msg := range messages {
		p.Go(func() error {
			if err := s.mailer.Send(ctx, msg); err != nil {
				logger.WithField("to", msg.To).Errorf("Failed to send %s email: %+v", kind, err)
				return err
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		metrics.NotificationsSent.WithLabelValues(kind, "failed").Inc()
		return err
	}
	metrics.NotificationsSent.WithLabelValues(kind, "sent").Inc()
	return nil
}

func renderHTML(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func describeAppointment(date *time.Time, clock string) string {
	if date == nil || date.IsZero() {
		return ""
	}
	if clock == "" {
		return date.Format("2006-01-02")
	}
	return date.Format("2006-01-02") + " " + clock
}

func dateOrZero(date *time.Time) time.Time {
	if date == nil {
		return time.Time{}
	}
	return *date
}
