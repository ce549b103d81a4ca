package usecase

import (
	"context"
	"testing"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/repository"
	"medcenter-booking/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContactUsecase(db *gorm.DB, m *recordingMailer) ContactUsecase {
	return NewContactUsecase(db, newTestLogger(), repository.NewContactMessageRepository(), repository.NewAppointmentRepository(), newNotificationService(m))
}

func contactRequest() *dto.ContactRequest {
	return &dto.ContactRequest{
		FullName: "Hanna Girma",
		Email:    "Hanna@Example.com",
		Phone:    "+251922334455",
		Message:  "Do you offer weekend appointments?",
	}
}

func TestSubmitContact_MailFailureIsNotFatal(t *testing.T) {
	db := newTestDB(t)
	m := &recordingMailer{err: errSMTPDown}
	uc := newContactUsecase(db, m)

	res, err := uc.SubmitContact(context.Background(), contactRequest())
	require.NoError(t, err)
	assert.Equal(t, "hanna@example.com", res.Email)
	assert.Equal(t, int64(1), countRows(t, db, &entity.ContactMessage{}))

	list, err := uc.GetContactMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestSendEmail(t *testing.T) {
	t.Run("acknowledges sender and copies admin", func(t *testing.T) {
		db := newTestDB(t)
		m := &recordingMailer{}

		_, err := newContactUsecase(db, m).SendEmail(context.Background(), contactRequest())
		require.NoError(t, err)
		assert.Equal(t, 2, m.count())
	})

	t.Run("delivery failure", func(t *testing.T) {
		db := newTestDB(t)
		m := &recordingMailer{err: errSMTPDown}

		_, err := newContactUsecase(db, m).SendEmail(context.Background(), contactRequest())
		assert.ErrorIs(t, err, ErrEmailDelivery)
		assert.Equal(t, int64(1), countRows(t, db, &entity.ContactMessage{}))
	})
}

func TestSendBookingEmail(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	booked, err := newAppointmentUsecase(db, newFakeGateway()).CreateAppointment(context.Background(), bookingRequest("home", nil, catalog.lab100.ID))
	require.NoError(t, err)

	m := &recordingMailer{}
	uc := newContactUsecase(db, m)
	req := &dto.SendBookingEmailRequest{
		Name:          "Abebe Kebede",
		Email:         "abebe@example.com",
		TotalAmount:   decimal.NewFromInt(400),
		AppointmentID: booked.Appointment.ID.String(),
	}

	require.NoError(t, uc.SendBookingEmail(context.Background(), req))
	assert.Equal(t, 2, m.count())

	// same appointment id is sent only once
	require.NoError(t, uc.SendBookingEmail(context.Background(), req))
	assert.Equal(t, 2, m.count())

	invalid := *req
	invalid.AppointmentID = "another-booking"
	invalid.Email = "not-an-email"
	err = uc.SendBookingEmail(context.Background(), &invalid)
	assert.ErrorIs(t, err, service.ErrInvalidNotification)
	assert.NotErrorIs(t, err, ErrEmailDelivery)

	failing := newContactUsecase(db, &recordingMailer{err: errSMTPDown})
	fresh := *req
	fresh.AppointmentID = "walk-in-42"
	err = failing.SendBookingEmail(context.Background(), &fresh)
	assert.ErrorIs(t, err, ErrEmailDelivery)
}
