package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medcenter-booking/internal/converter"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/domain/repository"
	"medcenter-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailDelivery = errors.New("email could not be delivered")
)

type ContactUsecase interface {
	// SubmitContact stores the message and notifies the admin. Mail failures are logged only.
	SubmitContact(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error)
	// SendEmail stores the message, acknowledges the sender and copies the admin.
	SendEmail(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error)
	SendBookingEmail(ctx context.Context, req *dto.SendBookingEmailRequest) error
	GetContactMessages(ctx context.Context) (*dto.ContactMessageListResponse, error)
}

type contactUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	contactRepo         repository.ContactMessageRepository
	appointmentRepo     repository.AppointmentRepository
	notificationService service.NotificationService
}

func NewContactUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	contactRepo repository.ContactMessageRepository,
	appointmentRepo repository.AppointmentRepository,
	notificationService service.NotificationService,
) ContactUsecase {
	return &contactUsecase{
		db:                  db,
		log:                 log,
		contactRepo:         contactRepo,
		appointmentRepo:     appointmentRepo,
		notificationService: notificationService,
	}
}

func (u *contactUsecase) SubmitContact(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error) {
	message, err := u.store(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := u.notificationService.SendContactNotification(ctx, contactNotificationFor(message, false)); err != nil {
		u.log.WithField("contact_id", message.ID).Warnf("Contact notification not delivered: %+v", err)
	}

	return converter.ContactMessageToResponse(message), nil
}

func (u *contactUsecase) SendEmail(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error) {
	message, err := u.store(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := u.notificationService.SendContactNotification(ctx, contactNotificationFor(message, true)); err != nil {
		u.log.WithField("contact_id", message.ID).Errorf("Failed to send contact email: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return converter.ContactMessageToResponse(message), nil
}

// SendBookingEmail sends a booking confirmation once per appointment id. When
// the id names a stored appointment its date and line items go on the summary.
func (u *contactUsecase) SendBookingEmail(ctx context.Context, req *dto.SendBookingEmailRequest) error {
	n := &service.BookingConfirmation{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Phone:         req.Phone,
		TotalAmount:   req.TotalAmount,
		AppointmentID: strings.TrimSpace(req.AppointmentID),
	}

	if id, err := uuid.Parse(n.AppointmentID); err == nil {
		appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.WithField("appointment_id", id).Warnf("Failed to load appointment for booking email: %+v", err)
		} else if appointment != nil {
			date := appointment.AppointmentDate
			n.AppointmentDate = &date
			n.AppointmentTime = appointment.AppointmentTime
			n.Items = invoiceItems(appointment)
		}
	}

	if err := u.notificationService.SendBookingConfirmation(ctx, n); err != nil {
		if errors.Is(err, service.ErrInvalidNotification) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return nil
}

func (u *contactUsecase) GetContactMessages(ctx context.Context) (*dto.ContactMessageListResponse, error) {
	messages, err := u.contactRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find contact messages: %+v", err)
		return nil, err
	}

	return &dto.ContactMessageListResponse{
		Messages: converter.ContactMessagesToResponses(messages),
		Total:    len(messages),
	}, nil
}

func (u *contactUsecase) store(ctx context.Context, req *dto.ContactRequest) (*entity.ContactMessage, error) {
	message := &entity.ContactMessage{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Message:  strings.TrimSpace(req.Message),
	}

	if err := u.contactRepo.Create(u.db.WithContext(ctx), message); err != nil {
		u.log.Warnf("Failed to store contact message: %+v", err)
		return nil, err
	}

	return message, nil
}

func contactNotificationFor(message *entity.ContactMessage, acknowledge bool) *service.ContactNotification {
	return &service.ContactNotification{
		FullName:    message.FullName,
		Email:       message.Email,
		Phone:       message.Phone,
		Message:     message.Message,
		Acknowledge: acknowledge,
	}
}
