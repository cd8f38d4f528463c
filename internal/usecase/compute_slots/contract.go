package compute_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// PolicyResolver интерфейс резолвера политики бизнеса
type PolicyResolver interface {
	// Resolve возвращает нормализованную политику; перечитывается на каждый вызов
	Resolve(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error)
}

// ContextLoader интерфейс загрузчика контекста бизнеса.
// Реализации: прямая (запрос в БД) и кэширующая — движок работает
// с обеими одинаково.
type ContextLoader interface {
	Load(ctx context.Context, businessID int64) (*domain.BusinessContext, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	// FindByIDs возвращает найденные услуги; неизвестные ID опускаются
	FindByIDs(ctx context.Context, businessID int64, ids []int64) ([]domain.CatalogService, error)
}

// SegmentRepository интерфейс выборки занятых сегментов
type SegmentRepository interface {
	FindSegmentsForDay(ctx context.Context, businessID int64, dayStart, dayEnd time.Time) ([]domain.BookedSegment, error)
}

// AttendanceRepository интерфейс выборки окон присутствия
type AttendanceRepository interface {
	FindWindowsForDay(ctx context.Context, businessID int64, dayStart, dayEnd time.Time) (map[int64][]domain.AttendanceWindow, error)
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
