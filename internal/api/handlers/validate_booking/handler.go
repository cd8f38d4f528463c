package validate_booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	validateBooking "github.com/m04kA/SMC-ScheduleService/internal/usecase/validate_booking"
)

const (
	msgInvalidBody        = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound   = "бизнес не найден"
	msgPaymentNotAllowed  = "выбранный тип оплаты недоступен для онлайн-записи"
	msgDateOutsideHorizon = "дата вне доступного горизонта бронирования"
	msgLeadTimeViolation  = "до начала записи осталось слишком мало времени"
	msgNoCapacity         = "на выбранный день нет свободных слотов для этих услуг"
	msgSlotJustTaken      = "выбранное время только что заняли"
	msgInvalidInput       = "некорректные параметры бронирования"
)

const (
	codePaymentNotAllowed  = "PAYMENT_TYPE_NOT_ALLOWED"
	codeDateOutsideHorizon = "DATE_OUTSIDE_HORIZON"
	codeLeadTimeViolation  = "LEAD_TIME_VIOLATION"
	codeNoCapacity         = "NO_CAPACITY_FOR_SELECTED_SERVICES"
	codeSlotJustTaken      = "SLOT_JUST_TAKEN"
)

type Handler struct {
	useCase ValidateBookingUseCase
	logger  Logger
}

func NewHandler(useCase ValidateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var body ValidateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := body.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Ошибки доступности несут альтернативные слоты
		var availErr *validateBooking.AvailabilityError
		if errors.As(err, &availErr) {
			switch {
			case errors.Is(err, validateBooking.ErrNoCapacityForSelectedServices):
				h.logger.Info("POST /bookings/validate - No capacity: business_id=%d, date=%s, alternatives=%d",
					body.BusinessID, body.Date, len(availErr.Alternatives))
				handlers.RespondConflict(w, FailedResponse(codeNoCapacity, msgNoCapacity, availErr.Alternatives))

			case errors.Is(err, validateBooking.ErrSlotJustTaken):
				h.logger.Info("POST /bookings/validate - Slot just taken: business_id=%d, start=%s %s, alternatives=%d",
					body.BusinessID, body.Date, body.StartTime, len(availErr.Alternatives))
				handlers.RespondConflict(w, FailedResponse(codeSlotJustTaken, msgSlotJustTaken, availErr.Alternatives))

			default:
				h.logger.Error("POST /bookings/validate - Unexpected availability error: %v", err)
				handlers.RespondInternalError(w)
			}
			return
		}

		switch {
		case errors.Is(err, validateBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings/validate - Business not found: business_id=%d", body.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, validateBooking.ErrPaymentTypeNotAllowed):
			h.logger.Info("POST /bookings/validate - Payment type not allowed: business_id=%d, payment_type=%s",
				body.BusinessID, body.PaymentType)
			handlers.RespondUnprocessable(w, FailedResponse(codePaymentNotAllowed, msgPaymentNotAllowed, nil))

		case errors.Is(err, validateBooking.ErrDateOutsideHorizon):
			h.logger.Info("POST /bookings/validate - Date outside horizon: business_id=%d, date=%s",
				body.BusinessID, body.Date)
			handlers.RespondUnprocessable(w, FailedResponse(codeDateOutsideHorizon, msgDateOutsideHorizon, nil))

		case errors.Is(err, validateBooking.ErrLeadTimeViolation):
			h.logger.Info("POST /bookings/validate - Lead time violation: business_id=%d, start=%s %s",
				body.BusinessID, body.Date, body.StartTime)
			handlers.RespondUnprocessable(w, FailedResponse(codeLeadTimeViolation, msgLeadTimeViolation, nil))

		case errors.Is(err, validateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/validate - Validation failed: business_id=%d, error=%v",
				body.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/validate - Booking valid: business_id=%d, start=%s %s",
		body.BusinessID, body.Date, body.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
