package compute_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bizcontextSvc "github.com/m04kA/SMC-ScheduleService/internal/service/bizcontext"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeutil"
)

// UseCase use case расчёта доступных слотов (движок ёмкости).
// Каждый вызов пересчитывает всё с нуля из свежих чтений: между
// запросом слотов и отправкой брони состояние могло измениться,
// поэтому никакое внутреннее состояние между вызовами не хранится.
type UseCase struct {
	policyResolver PolicyResolver
	contextLoader  ContextLoader
	catalog        ServiceCatalog
	segmentRepo    SegmentRepository
	attendanceRepo AttendanceRepository
	timeProvider   TimeProvider
	loc            *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	policyResolver PolicyResolver,
	contextLoader ContextLoader,
	catalog ServiceCatalog,
	segmentRepo SegmentRepository,
	attendanceRepo AttendanceRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		policyResolver: policyResolver,
		contextLoader:  contextLoader,
		catalog:        catalog,
		segmentRepo:    segmentRepo,
		attendanceRepo: attendanceRepo,
		timeProvider:   &RealTimeProvider{},
		loc:            loc,
		logger:         logger,
	}
}

// Execute выполняет расчёт доступных слотов на день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComputeSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Точка отсчёта «сейчас»: из запроса или от провайдера времени
	now := req.Now
	if now.IsZero() {
		now = uc.timeProvider.Now()
	}

	uc.logger.Info("ComputeSlots: business=%d, date=%s, services=%d",
		req.BusinessID, req.Date.Format(domain.DateFormat), len(req.Services))

	// 3. Получаем нормализованную политику (перечитывается на каждый вызов)
	policy, err := uc.policyResolver.Resolve(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, policySvc.ErrBusinessNotFound) {
			uc.logger.Warn("ComputeSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("ComputeSlots: failed to resolve policy for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// 4. Проверка горизонта: прошедшие дни и дни за горизонтом пусты.
	// При выключенном booking v2 доступен только сегодняшний день.
	offset := timeutil.DayOffset(now, req.Date, uc.loc)
	if offset < 0 || offset >= policy.HorizonDays {
		uc.logger.Info("ComputeSlots: date offset %d outside horizon %d, no slots", offset, policy.HorizonDays)
		return uc.emptyResponse(req), nil
	}
	if !policy.BookingV2Enabled && offset > 0 {
		uc.logger.Info("ComputeSlots: multi-day booking disabled, offset %d, no slots", offset)
		return uc.emptyResponse(req), nil
	}

	// 5. Разворачиваем запрошенные услуги в независимые единицы.
	// Неизвестные ID услуг отбрасываются; пустой результат = пустой день.
	units, err := uc.expandServiceUnits(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		uc.logger.Info("ComputeSlots: no known services in request for business id=%d", req.BusinessID)
		return uc.emptyResponse(req), nil
	}

	// 6. Загружаем контекст бизнеса (часы + ростеры)
	bctx, err := uc.contextLoader.Load(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bizcontextSvc.ErrBusinessNotFound) {
			uc.logger.Warn("ComputeSlots: business id=%d context not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("ComputeSlots: failed to load context for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to load business context: %v", ErrInternal, err)
	}

	// 7. Резолвим окна рабочих часов по категориям.
	// Категория без единой открытой минуты делает весь день недоступным,
	// независимо от ёмкости остальных категорий.
	dayOfWeek := int(timeutil.DayStart(req.Date, uc.loc).Weekday())
	if ok, err := uc.attachWindows(units, bctx, dayOfWeek); err != nil {
		uc.logger.Error("ComputeSlots: failed to resolve operating windows: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve operating windows: %v", ErrInternal, err)
	} else if !ok {
		uc.logger.Info("ComputeSlots: a requested category has no open window on %s, day unbookable",
			req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 8. Сортировка для упаковки: сперва самые стеснённые окна и самые
	// длинные услуги — невыполнимые комбинации отваливаются раньше
	sortUnitsForPacking(units)

	// 9. Привязываем квалифицированных исполнителей к каждой единице
	attachQualifiedProviders(units, bctx)

	dayStart := timeutil.DayStart(req.Date, uc.loc)
	dayEnd := timeutil.DayEnd(req.Date, uc.loc)
	today := offset == 0

	// 10. Посещаемость читается только для «сегодня»: будущие дни
	// всегда считаются по ростеру
	var attendance map[int64][]domain.AttendanceWindow
	if today {
		attendance, err = uc.attendanceRepo.FindWindowsForDay(ctx, req.BusinessID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("ComputeSlots: failed to load attendance for business id=%d: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: failed to load attendance: %v", ErrInternal, err)
		}
	}

	// 11. Занятые сегменты существующих бронирований за день
	segments, err := uc.segmentRepo.FindSegmentsForDay(ctx, req.BusinessID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("ComputeSlots: failed to load booked segments for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to load booked segments: %v", ErrInternal, err)
	}

	// 12. Итерация кандидатов и жадная упаковка единиц
	comp := &dayComputation{
		day:        dayStart,
		loc:        uc.loc,
		policy:     policy,
		units:      units,
		segments:   segments,
		attendance: attendance,
		now:        now,
		today:      today,
	}
	slots := comp.run()

	uc.logger.Info("ComputeSlots: business=%d, date=%s: %d slots",
		req.BusinessID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Slots:      slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Slots:      []domain.Slot{},
	}
}

// expandServiceUnits резолвит запрошенные услуги через каталог и
// разворачивает количество N в N независимых единиц
func (uc *UseCase) expandServiceUnits(ctx context.Context, req *Request) ([]*serviceUnit, error) {
	ids := make([]int64, 0, len(req.Services))
	for _, spec := range req.Services {
		ids = append(ids, spec.ServiceID)
	}

	services, err := uc.catalog.FindByIDs(ctx, req.BusinessID, ids)
	if err != nil {
		uc.logger.Error("ComputeSlots: failed to resolve services for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to resolve services: %v", ErrInternal, err)
	}

	byID := make(map[int64]domain.CatalogService, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	units := make([]*serviceUnit, 0, len(req.Services))
	for _, spec := range req.Services {
		svc, ok := byID[spec.ServiceID]
		if !ok {
			// Неизвестная услуга не ошибка — просто выпадает из расчёта
			continue
		}
		for i := 0; i < spec.Quantity; i++ {
			units = append(units, &serviceUnit{
				ServiceUnit: domain.ServiceUnit{
					ServiceID:       svc.ID,
					Category:        svc.Category,
					DurationMinutes: svc.DurationMinutes,
				},
			})
		}
	}

	return units, nil
}
