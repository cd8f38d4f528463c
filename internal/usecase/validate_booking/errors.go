package validate_booking

import (
	"errors"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден.
	// Фатальная ошибка: вызывающая сторона не должна продолжать.
	ErrBusinessNotFound = errors.New("validate_booking: business not found")

	// ErrPaymentTypeNotAllowed возвращается, когда публичный клиент
	// запросил тип оплаты, запрещённый политикой бизнеса
	ErrPaymentTypeNotAllowed = errors.New("validate_booking: payment type not allowed")

	// ErrDateOutsideHorizon возвращается, когда дата вне горизонта бронирования
	ErrDateOutsideHorizon = errors.New("validate_booking: date outside booking horizon")

	// ErrLeadTimeViolation возвращается, когда до начала слота меньше
	// минимального упреждения
	ErrLeadTimeViolation = errors.New("validate_booking: minimum lead time violated")

	// ErrNoCapacityForSelectedServices возвращается, когда день вообще
	// не даёт слотов под запрошенный набор услуг
	ErrNoCapacityForSelectedServices = errors.New("validate_booking: no capacity for selected services")

	// ErrSlotJustTaken возвращается, когда слоты на день есть, но
	// запрошенное время среди них отсутствует (его только что заняли)
	ErrSlotJustTaken = errors.New("validate_booking: slot just taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_booking: internal error")
)

// AvailabilityError ошибка доступности с приложенными альтернативами:
// вызывающая сторона может предложить перебронирование без второго
// запроса. Err — один из сентинелов выше, матчится через errors.Is;
// альтернативы достаются через errors.As.
type AvailabilityError struct {
	Err          error
	Alternatives []domain.Slot
}

// Error реализует error
func (e *AvailabilityError) Error() string {
	return e.Err.Error()
}

// Unwrap поддерживает errors.Is по вложенному сентинелу
func (e *AvailabilityError) Unwrap() error {
	return e.Err
}
