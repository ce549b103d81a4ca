package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppointmentUsecase(db *gorm.DB, gw *fakeGateway) AppointmentUsecase {
	return NewAppointmentUsecase(
		db,
		newTestLogger(),
		repository.NewPatientRepository(),
		repository.NewAppointmentRepository(),
		repository.NewDepartmentRepository(),
		repository.NewServiceRepository(),
		newAuditService(),
		gw,
		newTestConfig(),
	)
}

func intPtr(v int) *int { return &v }

func bookingRequest(mode string, departmentID *int, serviceIDs ...int) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		FullName:        "Abebe Kebede Tesfaye",
		Age:             intPtr(34),
		Sex:             entity.SexMale,
		Phone:           "+251911223344",
		Email:           "Abebe@Example.com",
		Address:         "Bole, Addis Ababa",
		DepartmentID:    departmentID,
		ServiceIDs:      serviceIDs,
		AppointmentDate: "2099-03-10",
		AppointmentTime: "09:30",
		AppointmentMode: mode,
	}
}

func TestCreateAppointment_CenterWithDepartment(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	gw := newFakeGateway()
	uc := newAppointmentUsecase(db, gw)

	res, err := uc.CreateAppointment(context.Background(), bookingRequest("center", &catalog.cardiology.ID, catalog.lab100.ID))
	require.NoError(t, err)

	assert.True(t, res.Appointment.TotalAmount.Equal(decimal.NewFromInt(600)), "total was %s", res.Appointment.TotalAmount)
	assert.Equal(t, string(entity.PaymentStatusPending), res.Appointment.PaymentStatus)
	assert.True(t, strings.HasPrefix(res.Appointment.TxRef, "TX-"))
	assert.Equal(t, "https://checkout.test/"+res.Appointment.TxRef, res.CheckoutURL)
	require.Len(t, res.Appointment.Services, 1)
	assert.Equal(t, "Blood Glucose", res.Appointment.Services[0].Name)

	require.Len(t, gw.initCalls, 1)
	call := gw.initCalls[0]
	assert.True(t, call.Amount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, "Abebe", call.Payer.FirstName)
	assert.Equal(t, "Kebede Tesfaye", call.Payer.LastName)
	assert.Equal(t, res.Appointment.TxRef, call.TxRef)
	assert.Equal(t, "ETB", call.Currency)

	stored, err := repository.NewAppointmentRepository().FindByTxRef(db, res.Appointment.TxRef)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, "abebe@example.com", stored.Patient.Email)
	require.Len(t, stored.Services, 1)
	assert.True(t, stored.Services[0].Price.Equal(decimal.NewFromInt(100)))

	logs, err := repository.NewAuditLogRepository().FindByEntityID(db, stored.ID.String())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, logs[0].Action)
}

func TestCreateAppointment_HomeModeSumsServices(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	uc := newAppointmentUsecase(db, newFakeGateway())

	res, err := uc.CreateAppointment(context.Background(), bookingRequest("home", &catalog.cardiology.ID, catalog.lab150.ID, catalog.xray200.ID, catalog.lab150.ID))
	require.NoError(t, err)

	assert.True(t, res.Appointment.TotalAmount.Equal(decimal.NewFromInt(650)), "total was %s", res.Appointment.TotalAmount)
	assert.Len(t, res.Appointment.Services, 2)
}

func TestCreateAppointment_GatewayFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	gw := newFakeGateway()
	gw.initErr = errors.New("gateway timeout")
	uc := newAppointmentUsecase(db, gw)

	_, err := uc.CreateAppointment(context.Background(), bookingRequest("center", &catalog.cardiology.ID, catalog.lab100.ID))

	assert.ErrorIs(t, err, ErrPaymentGateway)
	assert.Zero(t, countRows(t, db, &entity.Appointment{}))
	assert.Zero(t, countRows(t, db, &entity.Patient{}))
	assert.Zero(t, countRows(t, db, &entity.AppointmentService{}))
	assert.Zero(t, countRows(t, db, &entity.AuditLog{}))
}

func TestCreateAppointment_RejectsBeforeGateway(t *testing.T) {
	tests := []struct {
		name    string
		request func(f catalogFixture) *dto.CreateAppointmentRequest
		wantErr error
	}{
		{
			name: "unknown service",
			request: func(f catalogFixture) *dto.CreateAppointmentRequest {
				return bookingRequest("home", nil, f.lab100.ID, 9999)
			},
			wantErr: ErrServiceNotFound,
		},
		{
			name: "inactive service",
			request: func(f catalogFixture) *dto.CreateAppointmentRequest {
				return bookingRequest("home", nil, f.inactive.ID)
			},
			wantErr: ErrServiceNotFound,
		},
		{
			name: "center without department",
			request: func(f catalogFixture) *dto.CreateAppointmentRequest {
				return bookingRequest("center", nil, f.lab100.ID)
			},
			wantErr: ErrDepartmentRequired,
		},
		{
			name: "unknown department",
			request: func(f catalogFixture) *dto.CreateAppointmentRequest {
				return bookingRequest("center", intPtr(424242))
			},
			wantErr: ErrDepartmentNotFound,
		},
		{
			name: "date in the past",
			request: func(f catalogFixture) *dto.CreateAppointmentRequest {
				req := bookingRequest("home", nil)
				req.AppointmentDate = "2001-01-01"
				return req
			},
			wantErr: ErrAppointmentInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			catalog := seedCatalog(t, db)
			gw := newFakeGateway()
			uc := newAppointmentUsecase(db, gw)

			_, err := uc.CreateAppointment(context.Background(), tt.request(catalog))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, gw.initCalls)
			assert.Zero(t, countRows(t, db, &entity.Appointment{}))
		})
	}
}

func TestCreateAppointment_ReusesPatientByMRN(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	uc := newAppointmentUsecase(db, newFakeGateway())

	first := bookingRequest("home", nil, catalog.lab100.ID)
	first.MRN = "MRN-0042"
	second := bookingRequest("home", nil, catalog.xray200.ID)
	second.MRN = "MRN-0042"

	a, err := uc.CreateAppointment(context.Background(), first)
	require.NoError(t, err)
	b, err := uc.CreateAppointment(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, &entity.Patient{}))
	assert.Equal(t, a.Appointment.Patient.ID, b.Appointment.Patient.ID)
	assert.NotEqual(t, a.Appointment.TxRef, b.Appointment.TxRef)
}

func TestGetMyAppointments(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	uc := newAppointmentUsecase(db, newFakeGateway())
	userID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)

	_, err := uc.CreateAppointment(ctx, bookingRequest("home", nil, catalog.lab100.ID))
	require.NoError(t, err)
	_, err = uc.CreateAppointment(context.Background(), bookingRequest("home", nil, catalog.lab150.ID))
	require.NoError(t, err)

	mine, err := uc.GetMyAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)
	require.Len(t, mine.Appointments[0].Services, 1)
	assert.Equal(t, catalog.lab100.ID, mine.Appointments[0].Services[0].ServiceID)

	_, err = uc.GetMyAppointments(context.Background())
	assert.ErrorIs(t, err, ErrUserNotInContext)
}

func TestGetPaymentStatusByTxRef(t *testing.T) {
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	uc := newAppointmentUsecase(db, newFakeGateway())

	created, err := uc.CreateAppointment(context.Background(), bookingRequest("home", nil, catalog.lab100.ID))
	require.NoError(t, err)

	status, err := uc.GetPaymentStatusByTxRef(context.Background(), created.Appointment.TxRef)
	require.NoError(t, err)
	assert.Equal(t, "Pending", status.PaymentStatus)

	_, err = uc.GetPaymentStatusByTxRef(context.Background(), "TX-unknown")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestComputeTotal(t *testing.T) {
	fee := decimal.NewFromInt(300)
	dept := &entity.Department{Price: decimal.NewFromInt(200)}
	services := []entity.Service{{Price: decimal.NewFromInt(150)}, {Price: decimal.NewFromInt(200)}}

	assert.True(t, computeTotal(fee, entity.AppointmentModeHome, dept, services).Equal(decimal.NewFromInt(650)))
	assert.True(t, computeTotal(fee, entity.AppointmentModeCenter, dept, services).Equal(decimal.NewFromInt(850)))
	assert.True(t, computeTotal(fee, entity.AppointmentModeCenter, dept, nil).Equal(decimal.NewFromInt(500)))
}

func TestPayerFromName(t *testing.T) {
	assert.Equal(t, "N/A", payerFromName("  ", "a@b.c", "").FirstName)
	assert.Equal(t, "N/A", payerFromName("Madonna", "a@b.c", "").LastName)
	p := payerFromName("Sara  Ali Hassan", "a@b.c", "")
	assert.Equal(t, "Sara", p.FirstName)
	assert.Equal(t, "Ali Hassan", p.LastName)
}
