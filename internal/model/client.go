package model

import (
	"github.com/creditos/creditos-backend/internal/domain"
)

func ClientToEntity(data Client) *domain.Client {
	return &domain.Client{
		ID:             data.ID,
		Nombre:         data.Nombre,
		Cedula:         data.Cedula,
		Direccion:      data.Direccion,
		Telefono:       data.Telefono,
		TelegramChatID: data.TelegramChatID,
		Email:          data.Email,
		Referencias:    data.Referencias,
		ModalidadPago:  data.ModalidadPago,
		AssignedTo:     data.AssignedTo,
		CreatedAt:      data.CreatedAt,
		CreatedBy:      data.CreatedBy,
		UpdatedAt:      data.UpdatedAt,
		UpdatedBy:      data.UpdatedBy,
	}
}

func UserToEntity(data User) *domain.User {
	return &domain.User{
		ID:           data.ID,
		Nombre:       data.Nombre,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         domain.Role(data.Role),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func NotificationFromEntity(data *domain.Notification) Notification {
	return Notification{
		ID:          data.ID,
		ClienteID:   data.ClienteID,
		Tipo:        string(data.Tipo),
		Mensaje:     data.Mensaje,
		Medio:       string(data.Medio),
		EstadoEnvio: string(data.EstadoEnvio),
		ResponseAPI: data.ResponseAPI,
		FechaEnvio:  data.FechaEnvio,
		CreatedAt:   data.CreatedAt,
	}
}

func NotificationsToEntity(data []Notification) []domain.Notification {
	responses := make([]domain.Notification, len(data))
	for i, n := range data {
		responses[i] = domain.Notification{
			ID:          n.ID,
			ClienteID:   n.ClienteID,
			Tipo:        domain.NotificationType(n.Tipo),
			Mensaje:     n.Mensaje,
			Medio:       domain.NotificationMedium(n.Medio),
			EstadoEnvio: domain.SendStatus(n.EstadoEnvio),
			ResponseAPI: n.ResponseAPI,
			FechaEnvio:  n.FechaEnvio,
			CreatedAt:   n.CreatedAt,
		}
	}

	return responses
}
