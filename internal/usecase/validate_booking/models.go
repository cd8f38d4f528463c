package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request запрос на валидацию брони перед созданием
type Request struct {
	BusinessID  int64
	Date        time.Time
	StartTime   string // формат HH:MM
	Services    []domain.ServiceSpec
	PaymentType domain.PaymentType
	IsPublic    bool // запрос от публичного клиента (не от персонала)
	IsWalkIn    bool // walk-in пропускает проверки горизонта и упреждения
	Now         time.Time
}

// Response результат успешной валидации
type Response struct {
	BusinessID int64
	StartAt    time.Time
	EndAt      time.Time
	Slot       domain.Slot
}
