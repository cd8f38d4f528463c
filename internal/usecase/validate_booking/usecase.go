package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeutil"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// UseCase use case валидации бронирования перед созданием.
// Проверки выполняются в фиксированном порядке; ошибки доступности
// (нет ёмкости, слот занят) несут список альтернативных слотов.
type UseCase struct {
	policyResolver PolicyResolver
	slotsEngine    SlotsEngine
	timeProvider   TimeProvider
	loc            *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	policyResolver PolicyResolver,
	slotsEngine SlotsEngine,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		policyResolver: policyResolver,
		slotsEngine:    slotsEngine,
		timeProvider:   &RealTimeProvider{},
		loc:            loc,
		logger:         logger,
	}
}

// Execute выполняет валидацию бронирования.
// Возвращает nil-ошибку, только если бронь можно создавать прямо сейчас.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Точка отсчёта «сейчас»: из запроса или от провайдера времени
	now := req.Now
	if now.IsZero() {
		now = uc.timeProvider.Now()
	}

	startMinute, err := types.TimeString(req.StartTime).MinutesOfDay()
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}
	requestedAt := timeutil.AtMinute(timeutil.DayStart(req.Date, uc.loc), startMinute, uc.loc)

	uc.logger.Info("ValidateBooking: business=%d, start=%s, services=%d, public=%t, walkIn=%t",
		req.BusinessID, requestedAt.Format(time.RFC3339), len(req.Services), req.IsPublic, req.IsWalkIn)

	// 3. Получаем нормализованную политику бизнеса
	policy, err := uc.policyResolver.Resolve(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, policySvc.ErrBusinessNotFound) {
			uc.logger.Warn("ValidateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("ValidateBooking: failed to resolve policy for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// 4. Проверка типа оплаты для публичных клиентов. Не зависит от
	// временных проверок и выполняется раньше них: клиент узнаёт о
	// запрете оплаты даже для слота в прошлом
	if req.IsPublic && !policy.AllowsPublicPayment(req.PaymentType) {
		uc.logger.Warn("ValidateBooking: payment type %q not allowed for public clients of business id=%d",
			req.PaymentType, req.BusinessID)
		return nil, ErrPaymentTypeNotAllowed
	}

	// 5. Walk-in создаётся персоналом на месте: проверки горизонта,
	// упреждения и ёмкости пропускаются
	if req.IsWalkIn {
		return &Response{
			BusinessID: req.BusinessID,
			StartAt:    requestedAt,
			EndAt:      requestedAt,
		}, nil
	}

	// 6. Проверка горизонта бронирования. При выключенном booking v2
	// бронировать можно только на сегодня
	offset := timeutil.DayOffset(now, req.Date, uc.loc)
	if offset < 0 || offset >= policy.HorizonDays {
		uc.logger.Warn("ValidateBooking: date offset %d outside horizon %d for business id=%d",
			offset, policy.HorizonDays, req.BusinessID)
		return nil, ErrDateOutsideHorizon
	}
	if !policy.BookingV2Enabled && offset > 0 {
		uc.logger.Warn("ValidateBooking: multi-day booking disabled for business id=%d, offset %d",
			req.BusinessID, offset)
		return nil, ErrDateOutsideHorizon
	}

	// 7. Проверка минимального упреждения
	leadCutoff := now.Add(time.Duration(policy.MinLeadMinutes) * time.Minute)
	if requestedAt.Before(leadCutoff) {
		uc.logger.Warn("ValidateBooking: start %s violates lead time %d min for business id=%d",
			requestedAt.Format(time.RFC3339), policy.MinLeadMinutes, req.BusinessID)
		return nil, ErrLeadTimeViolation
	}

	// 8. Пересчитываем слоты дня свежим прогоном движка
	slotsResp, err := uc.slotsEngine.Execute(ctx, &computeSlots.Request{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Services:   req.Services,
		Now:        now,
	})
	if err != nil {
		if errors.Is(err, computeSlots.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("ValidateBooking: slots engine failed for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 9. День без слотов: выбранный набор услуг не помещается вовсе
	if len(slotsResp.Slots) == 0 {
		uc.logger.Info("ValidateBooking: no capacity on %s for business id=%d",
			req.Date.Format(domain.DateFormat), req.BusinessID)
		return nil, &AvailabilityError{
			Err:          ErrNoCapacityForSelectedServices,
			Alternatives: uc.listAlternatives(ctx, req, now, policy, requestedAt),
		}
	}

	// 10. Ищем слот с запрошенным временем начала
	for i := range slotsResp.Slots {
		if slotsResp.Slots[i].StartAt.Equal(requestedAt) {
			return &Response{
				BusinessID: req.BusinessID,
				StartAt:    slotsResp.Slots[i].StartAt,
				EndAt:      slotsResp.Slots[i].EndAt,
				Slot:       slotsResp.Slots[i],
			}, nil
		}
	}

	// 11. Слоты на день есть, но запрошенного среди них нет:
	// время заняли между просмотром и отправкой
	uc.logger.Info("ValidateBooking: slot %s just taken for business id=%d",
		requestedAt.Format(time.RFC3339), req.BusinessID)
	return nil, &AvailabilityError{
		Err:          ErrSlotJustTaken,
		Alternatives: uc.alternativesFromDay(ctx, req, now, policy, requestedAt, slotsResp.Slots),
	}
}
