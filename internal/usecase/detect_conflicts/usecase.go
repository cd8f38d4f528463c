package detect_conflicts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeutil"
)

// UseCase use case сверки будущих бронирований после изменения,
// влияющего на персонал: смена часов, посещаемости, специализаций,
// одобренный отпуск или ручная проверка.
// Только детекция: бронирования никогда не изменяются и не отменяются,
// разрешение конфликта — административное действие вне сервиса.
type UseCase struct {
	policyResolver     PolicyResolver
	bookingScanner     BookingScanner
	outbox             ConflictOutbox
	slotsEngine        SlotsEngine
	txManager          TxManager
	contextInvalidator ContextInvalidator
	timeProvider       TimeProvider
	loc                *time.Location
	logger             Logger
}

// NewUseCase создает новый экземпляр use case.
// contextInvalidator может быть nil, если кэш контекста не используется
func NewUseCase(
	policyResolver PolicyResolver,
	bookingScanner BookingScanner,
	outbox ConflictOutbox,
	slotsEngine SlotsEngine,
	txManager TxManager,
	contextInvalidator ContextInvalidator,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		policyResolver:     policyResolver,
		bookingScanner:     bookingScanner,
		outbox:             outbox,
		slotsEngine:        slotsEngine,
		txManager:          txManager,
		contextInvalidator: contextInvalidator,
		timeProvider:       &RealTimeProvider{},
		loc:                loc,
		logger:             logger,
	}
}

// Execute сканирует будущие активные бронирования и эмитирует сигнал
// конфликта для каждого, чьё время больше не подтверждается движком.
// Идемпотентен по (бронь, календарный день): повторный прогон в тот же
// день не эмитирует новых сигналов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DetectConflicts: validation failed: %v", err)
		return nil, err
	}

	// 2. Точка отсчёта «сейчас»: из запроса или от провайдера времени
	now := req.Now
	if now.IsZero() {
		now = uc.timeProvider.Now()
	}

	uc.logger.Info("DetectConflicts: business=%d, reason=%s", req.BusinessID, req.Reason)

	// 3. Получаем нормализованную политику: от неё зависит горизонт скана
	policy, err := uc.policyResolver.Resolve(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, policySvc.ErrBusinessNotFound) {
			uc.logger.Warn("DetectConflicts: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("DetectConflicts: failed to resolve policy for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кэш контекста: часы и ростеры только что изменились,
	// пересчёт должен видеть свежие данные
	if uc.contextInvalidator != nil {
		uc.contextInvalidator.Invalidate(ctx, req.BusinessID)
	}

	// 5. Границы скана: [max(дата изменения, сейчас), конец горизонта)
	from := req.ChangeDate
	if from.IsZero() || from.Before(now) {
		from = now
	}
	to := timeutil.DayStart(now, uc.loc).AddDate(0, 0, policy.HorizonDays)

	// 6. Будущие активные бронирования, упорядоченные по времени начала
	bookings, err := uc.bookingScanner.FindFutureBookings(ctx, req.BusinessID, from, to, domain.ConflictScanLimit)
	if err != nil {
		uc.logger.Error("DetectConflicts: failed to scan bookings for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to scan future bookings: %v", ErrInternal, err)
	}

	signalDate := timeutil.DayStart(now, uc.loc)
	scanned := 0
	conflicts := 0

	for i := range bookings {
		booking := &bookings[i]

		// 7. Дедупликация: по этой брони сегодня уже сигналили
		signaled, err := uc.outbox.WasSignaledOn(ctx, booking.ID, signalDate)
		if err != nil {
			uc.logger.Error("DetectConflicts: dedup check failed for booking id=%d: %v", booking.ID, err)
			continue
		}
		if signaled {
			continue
		}

		specs := booking.ServiceSpecs()
		if len(specs) == 0 {
			// Все позиции отменены: проверять нечего
			continue
		}

		// 8. Свежий пересчёт слотов на день этой брони
		resp, err := uc.slotsEngine.Execute(ctx, &computeSlots.Request{
			BusinessID: req.BusinessID,
			Date:       timeutil.DayStart(booking.ScheduledAt, uc.loc),
			Services:   specs,
			Now:        now,
		})
		if err != nil {
			// Сбой по одной брони не прерывает скан остальных
			uc.logger.Error("DetectConflicts: recompute failed for booking id=%d: %v", booking.ID, err)
			continue
		}

		// Счётчик отражает только фактически перепроверенные брони:
		// пропущенные по дедупликации или из-за сбоя пересчёта не считаются
		scanned++

		if slotStillAvailable(resp.Slots, booking.ScheduledAt) {
			continue
		}

		// 9. Время брони не подтверждается: эмитируем сигнал в
		// сериализуемой транзакции с повторной проверкой дедупликации.
		// Уникальность (бронь, день) дополнительно обеспечивается на
		// записи — гонка параллельных прогонов схлопывается в один сигнал
		signal := &domain.ConflictSignal{
			EventID:       uuid.NewString(),
			BusinessID:    req.BusinessID,
			BookingID:     booking.ID,
			ScheduledAt:   booking.ScheduledAt,
			CustomerName:  booking.CustomerName,
			Reason:        req.Reason,
			Detail:        req.Detail,
			DetectedAt:    now,
			SchemaVersion: domain.ConflictPayloadSchemaVersion,
		}

		var inserted bool
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			signaled, err := uc.outbox.WasSignaledOn(txCtx, booking.ID, signalDate)
			if err != nil {
				return err
			}
			if signaled {
				return nil
			}
			inserted, err = uc.outbox.Emit(txCtx, signal, signalDate)
			return err
		})
		if err != nil {
			uc.logger.Error("DetectConflicts: failed to emit signal for booking id=%d: %v", booking.ID, err)
			continue
		}
		if inserted {
			conflicts++
			uc.logger.Info("DetectConflicts: booking id=%d at %s no longer satisfiable, signal emitted",
				booking.ID, booking.ScheduledAt.Format(time.RFC3339))
		}
	}

	uc.logger.Info("DetectConflicts: business=%d: scanned=%d, conflicts=%d",
		req.BusinessID, scanned, conflicts)

	return &Response{
		Scanned:   scanned,
		Conflicts: conflicts,
	}, nil
}

// slotStillAvailable проверяет, что среди слотов есть слот с точно
// таким временем начала
func slotStillAvailable(slots []domain.Slot, scheduledAt time.Time) bool {
	for i := range slots {
		if slots[i].StartAt.Equal(scheduledAt) {
			return true
		}
	}
	return false
}
