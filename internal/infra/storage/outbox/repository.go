package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository append-only outbox событий конфликтов.
// Доставкой и ретраями занимается внешний пайплайн; движок только пишет.
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий outbox-а конфликтов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// WasSignaledOn проверяет, был ли уже эмитирован сигнал по бронированию
// за календарный день signalDate
func (r *Repository) WasSignaledOn(ctx context.Context, bookingID int64, signalDate time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("conflict_events").
		Where(squirrel.Eq{
			"booking_id":  bookingID,
			"signal_date": signalDate.Format(domain.DateFormat),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: WasSignaledOn - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: WasSignaledOn - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	signaled := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: WasSignaledOn - rows error: %v", ErrScanRow, err)
	}
	return signaled, nil
}

// Emit записывает сигнал конфликта идемпотентно по (booking_id, signal_date):
// уникальный индекс + ON CONFLICT DO NOTHING гарантируют не более одного
// сигнала на бронирование в день даже при конкурентных сканах.
// Возвращает false, если сигнал за этот день уже существовал.
func (r *Repository) Emit(ctx context.Context, signal *domain.ConflictSignal, signalDate time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("conflict_events").
		Columns(
			"event_id",
			"business_id",
			"booking_id",
			"signal_date",
			"scheduled_at",
			"customer_name",
			"reason",
			"detail",
			"schema_version",
			"detected_at",
		).
		Values(
			signal.EventID,
			signal.BusinessID,
			signal.BookingID,
			signalDate.Format(domain.DateFormat),
			signal.ScheduledAt,
			signal.CustomerName,
			string(signal.Reason),
			signal.Detail,
			signal.SchemaVersion,
			signal.DetectedAt,
		).
		Suffix("ON CONFLICT (booking_id, signal_date) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Emit - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Emit - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Emit - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
