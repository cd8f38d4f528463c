package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	validateBooking "github.com/m04kA/SMC-ScheduleService/internal/usecase/validate_booking"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	BusinessID  int64             `json:"businessId"`
	Date        string            `json:"date"`      // YYYY-MM-DD
	StartTime   string            `json:"startTime"` // HH:MM
	Services    []ServiceSpecBody `json:"services"`
	PaymentType string            `json:"paymentType"`
	IsPublic    bool              `json:"isPublic"`
	IsWalkIn    bool              `json:"isWalkIn"`
}

// ServiceSpecBody одна запрошенная услуга
type ServiceSpecBody struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// ValidateBookingResponse HTTP response model успешной валидации
type ValidateBookingResponse struct {
	Valid   bool   `json:"valid"`
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
}

// ValidationFailedResponse HTTP response model отказа с альтернативами
type ValidationFailedResponse struct {
	Valid        bool              `json:"valid"`
	Code         string            `json:"code"`
	Error        string            `json:"error"`
	Alternatives []AlternativeSlot `json:"alternatives"`
}

// AlternativeSlot альтернативный слот для перебронирования
type AlternativeSlot struct {
	StartAt    string `json:"startAt"`
	EndAt      string `json:"endAt"`
	Confidence string `json:"confidence"`
}

// ToUseCaseRequest создает запрос use case из HTTP запроса
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	services := make([]domain.ServiceSpec, 0, len(r.Services))
	for _, s := range r.Services {
		services = append(services, domain.ServiceSpec{
			ServiceID: s.ServiceID,
			Quantity:  s.Quantity,
		})
	}

	return &validateBooking.Request{
		BusinessID:  r.BusinessID,
		Date:        date,
		StartTime:   r.StartTime,
		Services:    services,
		PaymentType: domain.PaymentType(r.PaymentType),
		IsPublic:    r.IsPublic,
		IsWalkIn:    r.IsWalkIn,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateBooking.Response) *ValidateBookingResponse {
	return &ValidateBookingResponse{
		Valid:   true,
		StartAt: resp.StartAt.Format(time.RFC3339),
		EndAt:   resp.EndAt.Format(time.RFC3339),
	}
}

// FailedResponse собирает тело отказа из кода, сообщения и альтернатив
func FailedResponse(code, message string, alternatives []domain.Slot) *ValidationFailedResponse {
	alts := make([]AlternativeSlot, len(alternatives))
	for i, slot := range alternatives {
		alts[i] = AlternativeSlot{
			StartAt:    slot.StartAt.Format(time.RFC3339),
			EndAt:      slot.EndAt.Format(time.RFC3339),
			Confidence: string(slot.Confidence),
		}
	}

	return &ValidationFailedResponse{
		Valid:        false,
		Code:         code,
		Error:        message,
		Alternatives: alts,
	}
}
