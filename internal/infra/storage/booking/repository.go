package booking

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

// Repository репозиторий бронирований: занятые сегменты дня и
// скан будущих бронирований для детектора конфликтов
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveBookingStatuses))
	for i, s := range domain.ActiveBookingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// FindSegmentsForDay возвращает занятые сегменты бизнеса за календарный
// день [dayStart, dayEnd): по одному сегменту на активную позицию
// активного бронирования, с категорией и назначенным исполнителем
// (employee_id/owner_id могут быть NULL — сегмент без назначения)
func (r *Repository) FindSegmentsForDay(ctx context.Context, businessID int64, dayStart, dayEnd time.Time) ([]domain.BookedSegment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"bi.booking_id",
		"bi.category",
		"bi.start_at",
		"bi.end_at",
		"bi.employee_id",
		"bi.owner_id",
	).
		From("booking_items bi").
		Join("bookings b ON b.id = bi.booking_id").
		Where(squirrel.Eq{"b.business_id": businessID}).
		Where(squirrel.Eq{"b.status": activeStatusStrings()}).
		Where(squirrel.Eq{"bi.status": string(domain.BookingItemStatusActive)}).
		Where(squirrel.GtOrEq{"bi.start_at": dayStart}).
		Where(squirrel.Lt{"bi.start_at": dayEnd}).
		OrderBy("bi.start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindSegmentsForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindSegmentsForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	segments := make([]domain.BookedSegment, 0)
	for rows.Next() {
		var s domain.BookedSegment
		if err := rows.Scan(
			&s.BookingID,
			&s.Category,
			&s.StartAt,
			&s.EndAt,
			&s.EmployeeID,
			&s.OwnerID,
		); err != nil {
			return nil, fmt.Errorf("%w: FindSegmentsForDay - scan row: %v", ErrScanRow, err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindSegmentsForDay - rows error: %v", ErrScanRow, err)
	}

	return segments, nil
}

// FindFutureBookings возвращает активные бронирования бизнеса в
// интервале [from, to), упорядоченные по времени, с их позициями.
// limit ограничивает размер одного скана.
func (r *Repository) FindFutureBookings(ctx context.Context, businessID int64, from, to time.Time, limit int) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"customer_name",
		"scheduled_at",
		"status",
	).
		From("bookings").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.GtOrEq{"scheduled_at": from}).
		Where(squirrel.Lt{"scheduled_at": to}).
		OrderBy("scheduled_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindFutureBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindFutureBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.BusinessID, &b.CustomerName, &b.ScheduledAt, &b.Status); err != nil {
			return nil, fmt.Errorf("%w: FindFutureBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindFutureBookings - rows error: %v", ErrScanRow, err)
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	// Индекс по ID строится после того, как срез собран целиком:
	// дальнейших append нет, указатели внутрь среза стабильны
	byID := make(map[int64]*domain.Booking, len(bookings))
	for i := range bookings {
		byID[bookings[i].ID] = &bookings[i]
	}

	if err := r.loadItems(ctx, executor, byID); err != nil {
		return nil, err
	}

	return bookings, nil
}

// loadItems догружает позиции для набора бронирований одним запросом
func (r *Repository) loadItems(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Booking) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"service_id",
		"quantity",
		"status",
	).
		From("booking_items").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC, service_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var item domain.BookingItem
		if err := rows.Scan(&bookingID, &item.ServiceID, &item.Quantity, &item.Status); err != nil {
			return fmt.Errorf("%w: loadItems - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Items = append(b.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}
