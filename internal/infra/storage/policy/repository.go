package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс executor-а из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий политик бронирования бизнесов
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessID возвращает политику бизнеса как она хранится,
// без нормализации — дефолты и клампы применяет сервисный слой
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"horizon_days",
		"min_lead_minutes",
		"slot_interval_minutes",
		"same_day_strict_minutes",
		"allow_public_full_payment",
		"allow_public_downpayment",
		"default_public_payment_type",
		"booking_v2_enabled",
	).
		From("business_policies").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.BusinessPolicy
	var paymentType string

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.BusinessID,
		&p.HorizonDays,
		&p.MinLeadMinutes,
		&p.SlotIntervalMinutes,
		&p.SameDayStrictMinutes,
		&p.AllowPublicFullPayment,
		&p.AllowPublicDownpayment,
		&paymentType,
		&p.BookingV2Enabled,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - scan policy: %v", ErrScanRow, err)
	}

	p.DefaultPublicPaymentType = domain.PaymentType(paymentType)

	return &p, nil
}
