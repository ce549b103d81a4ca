package converter

import (
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
)

func ContactMessageToResponse(message *entity.ContactMessage) *dto.ContactMessageResponse {
	if message == nil {
		return nil
	}

	return &dto.ContactMessageResponse{
		ID:        message.ID,
		FullName:  message.FullName,
		Email:     message.Email,
		Phone:     message.Phone,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
	}
}

func ContactMessagesToResponses(messages []entity.ContactMessage) []dto.ContactMessageResponse {
	responses := make([]dto.ContactMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *ContactMessageToResponse(&messages[i])
	}
	return responses
}
