package converter

import (
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Patient, department and services are included when they are loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		Services:        make([]dto.SelectedServiceResponse, 0, len(appointment.Services)),
		OtherServices:   appointment.OtherServices,
		AppointmentDate: appointment.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: appointment.AppointmentTime,
		AppointmentMode: string(appointment.Mode),
		BasePrice:       appointment.BasePrice,
		TotalAmount:     appointment.TotalAmount,
		PaymentStatus:   string(appointment.PaymentStatus),
		TxRef:           appointment.TxRef,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&appointment.Patient)
	}

	if appointment.Department != nil {
		response.Department = DepartmentToResponse(appointment.Department)
	}

	for _, selected := range appointment.Services {
		response.Services = append(response.Services, dto.SelectedServiceResponse{
			ServiceID: selected.ServiceID,
			Name:      selected.Service.Name,
			Type:      string(selected.Service.Type),
			Price:     selected.Price,
		})
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
