package detect_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
)

// PolicyResolver интерфейс резолвера политики бизнеса
type PolicyResolver interface {
	Resolve(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error)
}

// BookingScanner интерфейс чтения будущих активных бронирований
type BookingScanner interface {
	FindFutureBookings(ctx context.Context, businessID int64, from, to time.Time, limit int) ([]domain.Booking, error)
}

// ConflictOutbox интерфейс outbox конфликтных сигналов.
// Emit обязан обеспечивать уникальность (bookingID, signalDate) на
// записи: параллельные прогоны могут просканировать одну бронь дважды
type ConflictOutbox interface {
	WasSignaledOn(ctx context.Context, bookingID int64, signalDate time.Time) (bool, error)
	Emit(ctx context.Context, signal *domain.ConflictSignal, signalDate time.Time) (bool, error)
}

// TxManager интерфейс менеджера сериализуемых транзакций: проверка
// дедупликации и запись сигнала выполняются атомарно
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContextInvalidator интерфейс сброса кэша контекста бизнеса.
// Сверка запускается сразу после staffing-изменения, поэтому кэш
// часов и ростеров к этому моменту заведомо устарел
type ContextInvalidator interface {
	Invalidate(ctx context.Context, businessID int64)
}

// SlotsEngine интерфейс движка расчёта слотов
type SlotsEngine interface {
	Execute(ctx context.Context, req *computeSlots.Request) (*computeSlots.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
