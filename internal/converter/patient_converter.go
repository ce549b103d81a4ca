package converter

import (
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:          patient.ID,
		FullName:    patient.FullName,
		Age:         patient.Age,
		Sex:         patient.Sex,
		PhoneNumber: patient.PhoneNumber,
		Email:       patient.Email,
		Address:     patient.Address,
	}
	if patient.MRN != nil {
		response.MRN = *patient.MRN
	}

	return response
}
