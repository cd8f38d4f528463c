package compute_slots

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request модель запроса на расчёт доступных слотов
type Request struct {
	BusinessID int64                // ID бизнеса
	Date       time.Time            // Запрошенный календарный день
	Services   []domain.ServiceSpec // Запрошенные услуги с количеством
	Now        time.Time            // Точка отсчёта «сейчас»; zero = взять из TimeProvider
}

// Response модель ответа со списком доступных слотов.
// Слоты упорядочены по времени начала; недоступные слоты не включаются.
type Response struct {
	BusinessID int64
	Date       time.Time
	Slots      []domain.Slot
}
