package detect_conflicts

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request запрос на сверку будущих бронирований после изменения
type Request struct {
	BusinessID int64
	Reason     domain.ConflictReason
	ChangeDate time.Time // начало затронутого периода; zero = с текущего момента
	Detail     string    // человекочитаемое описание изменения
	Now        time.Time
}

// Response результат сверки
type Response struct {
	Scanned   int // сколько бронирований фактически перепроверено движком
	Conflicts int // сколько сигналов конфликта эмитировано
}
