package compute_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// --- стабы зависимостей ---

type stubPolicyResolver struct {
	policy *domain.BusinessPolicy
	err    error
}

func (s *stubPolicyResolver) Resolve(_ context.Context, _ int64) (*domain.BusinessPolicy, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := *s.policy
	p.Normalize()
	return &p, nil
}

type stubContextLoader struct {
	bctx *domain.BusinessContext
	err  error
}

func (s *stubContextLoader) Load(_ context.Context, _ int64) (*domain.BusinessContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bctx, nil
}

type stubCatalog struct {
	services []domain.CatalogService
}

func (s *stubCatalog) FindByIDs(_ context.Context, _ int64, ids []int64) ([]domain.CatalogService, error) {
	found := make([]domain.CatalogService, 0, len(ids))
	for _, id := range ids {
		for _, svc := range s.services {
			if svc.ID == id {
				found = append(found, svc)
			}
		}
	}
	return found, nil
}

type stubSegmentRepo struct {
	segments []domain.BookedSegment
}

func (s *stubSegmentRepo) FindSegmentsForDay(_ context.Context, _ int64, _, _ time.Time) ([]domain.BookedSegment, error) {
	return s.segments, nil
}

type stubAttendanceRepo struct {
	windows map[int64][]domain.AttendanceWindow
}

func (s *stubAttendanceRepo) FindWindowsForDay(_ context.Context, _ int64, _, _ time.Time) (map[int64][]domain.AttendanceWindow, error) {
	return s.windows, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- фикстуры ---

// Среда 08:00; четверг — завтрашний день
var (
	testLoc    = time.UTC
	testNow    = time.Date(2026, 3, 4, 8, 0, 0, 0, testLoc)
	thursday   = time.Date(2026, 3, 5, 0, 0, 0, 0, testLoc)
	defaultHrs = weekdayHours("09:00", "18:00")
	testPolicy = domain.BusinessPolicy{
		BusinessID:           1,
		HorizonDays:          30,
		MinLeadMinutes:       60,
		SlotIntervalMinutes:  30,
		SameDayStrictMinutes: 120,
		BookingV2Enabled:     true,
	}
)

// weekdayHours общие часы работы на всю неделю
func weekdayHours(open, close string) []domain.OperatingHours {
	hours := make([]domain.OperatingHours, 0, 7)
	for day := 0; day < 7; day++ {
		hours = append(hours, domain.OperatingHours{
			BusinessID: 1,
			DayOfWeek:  day,
			Category:   domain.GeneralCategory,
			OpenTime:   types.TimeString(open),
			CloseTime:  types.TimeString(close),
		})
	}
	return hours
}

type fixture struct {
	policy     domain.BusinessPolicy
	hours      []domain.OperatingHours
	employees  []domain.Provider
	owners     []domain.Provider
	services   []domain.CatalogService
	segments   []domain.BookedSegment
	attendance map[int64][]domain.AttendanceWindow
}

func defaultFixture() fixture {
	return fixture{
		policy: testPolicy,
		hours:  defaultHrs,
		employees: []domain.Provider{
			{ID: 10, BusinessID: 1, Name: "Anna"},
		},
		owners: []domain.Provider{
			{ID: 20, BusinessID: 1, Name: "Boris"},
		},
		services: []domain.CatalogService{
			{ID: 1, BusinessID: 1, Category: "barbering", DurationMinutes: 30},
		},
	}
}

func newTestUseCase(f fixture) *UseCase {
	return NewUseCase(
		&stubPolicyResolver{policy: &f.policy},
		&stubContextLoader{bctx: &domain.BusinessContext{
			BusinessID: 1,
			Hours:      f.hours,
			Employees:  f.employees,
			Owners:     f.owners,
		}},
		&stubCatalog{services: f.services},
		&stubSegmentRepo{segments: f.segments},
		&stubAttendanceRepo{windows: f.attendance},
		testLoc,
		nopLogger{},
	)
}

func execute(t *testing.T, uc *UseCase, date time.Time, services ...domain.ServiceSpec) *Response {
	t.Helper()
	if len(services) == 0 {
		services = []domain.ServiceSpec{{ServiceID: 1, Quantity: 1}}
	}
	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		Date:       date,
		Services:   services,
		Now:        testNow,
	})
	require.NoError(t, err)
	return resp
}

func slotStarts(slots []domain.Slot) []string {
	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.StartAt.Format("15:04")
	}
	return starts
}

// --- тесты ---

func TestExecuteFutureDayFullGrid(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	resp := execute(t, uc, thursday)

	// 09:00–18:00 с шагом 30 минут: 18 слотов, последний старт 17:30
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, "09:00", resp.Slots[0].StartAt.Format("15:04"))
	assert.Equal(t, "17:30", resp.Slots[17].StartAt.Format("15:04"))

	for _, slot := range resp.Slots {
		assert.Equal(t, domain.SlotSourceRoster, slot.Source)
		assert.Equal(t, domain.SlotConfidenceTentative, slot.Confidence)
		assert.Equal(t, 1, slot.AvailableEmployees)
		assert.Equal(t, 1, slot.AvailableOwners)
		assert.Equal(t, 30*time.Minute, slot.EndAt.Sub(slot.StartAt))
	}
}

func TestExecuteHorizon(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	t.Run("past day yields no slots", func(t *testing.T) {
		resp := execute(t, uc, testNow.AddDate(0, 0, -1))
		assert.Empty(t, resp.Slots)
	})

	t.Run("day at horizon boundary yields no slots", func(t *testing.T) {
		resp := execute(t, uc, testNow.AddDate(0, 0, testPolicy.HorizonDays))
		assert.Empty(t, resp.Slots)
	})

	t.Run("last day inside horizon yields slots", func(t *testing.T) {
		resp := execute(t, uc, testNow.AddDate(0, 0, testPolicy.HorizonDays-1))
		assert.NotEmpty(t, resp.Slots)
	})
}

func TestExecuteMultiDayDisabled(t *testing.T) {
	f := defaultFixture()
	f.policy.BookingV2Enabled = false
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)
	assert.Empty(t, resp.Slots)

	// Сегодняшний день по-прежнему доступен
	resp = execute(t, uc, testNow)
	assert.NotEmpty(t, resp.Slots)
}

func TestExecuteUnknownServicesDropped(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	t.Run("only unknown services yields empty day", func(t *testing.T) {
		resp := execute(t, uc, thursday, domain.ServiceSpec{ServiceID: 99, Quantity: 1})
		assert.Empty(t, resp.Slots)
	})

	t.Run("unknown service alongside a known one is ignored", func(t *testing.T) {
		resp := execute(t, uc, thursday,
			domain.ServiceSpec{ServiceID: 1, Quantity: 1},
			domain.ServiceSpec{ServiceID: 99, Quantity: 1},
		)
		assert.Len(t, resp.Slots, 18)
	})
}

func TestExecuteCategoryWithoutHoursMakesDayUnbookable(t *testing.T) {
	f := defaultFixture()
	// У spa есть собственная строка «закрыто» на четверг
	f.hours = append(f.hours, domain.OperatingHours{
		BusinessID: 1,
		DayOfWeek:  int(thursday.Weekday()),
		Category:   "spa",
		OpenTime:   types.TimeString("09:00"),
		CloseTime:  types.TimeString("18:00"),
		IsClosed:   true,
	})
	f.services = append(f.services, domain.CatalogService{
		ID: 2, BusinessID: 1, Category: "spa", DurationMinutes: 30,
	})
	uc := newTestUseCase(f)

	// Одна barbering-услуга размещается
	resp := execute(t, uc, thursday, domain.ServiceSpec{ServiceID: 1, Quantity: 1})
	assert.NotEmpty(t, resp.Slots)

	// Добавление spa-услуги без открытых минут опустошает весь день
	resp = execute(t, uc, thursday,
		domain.ServiceSpec{ServiceID: 1, Quantity: 1},
		domain.ServiceSpec{ServiceID: 2, Quantity: 1},
	)
	assert.Empty(t, resp.Slots)
}

func TestExecuteSameDayStrictWindow(t *testing.T) {
	// Сейчас среда 08:00; упреждение 60 минут отсекает старты до 09:00,
	// строгое окно до 10:00 требует подтверждённого присутствия
	f := defaultFixture()
	uc := newTestUseCase(f)

	resp := execute(t, uc, testNow)

	// Без посещаемости строгие кандидаты (09:00, 09:30) выпадают без
	// отката на ростер; с 10:00 действует откат
	starts := slotStarts(resp.Slots)
	assert.NotContains(t, starts, "09:00")
	assert.NotContains(t, starts, "09:30")
	assert.Equal(t, "10:00", starts[0])
	assert.Len(t, resp.Slots, 16)

	for _, slot := range resp.Slots {
		assert.Equal(t, domain.SlotSourceRoster, slot.Source)
		assert.Equal(t, domain.SlotConfidenceTentative, slot.Confidence)
	}
}

func TestExecuteSameDayAttendanceConfirmed(t *testing.T) {
	f := defaultFixture()
	f.attendance = map[int64][]domain.AttendanceWindow{
		10: {{EmployeeID: 10, ClockIn: testNow.Add(-2 * time.Hour)}}, // открытое окно с 06:00
	}
	uc := newTestUseCase(f)

	resp := execute(t, uc, testNow)

	// Присутствие покрывает день: слоты с 09:00 (после упреждения),
	// включая строгое окно, и все подтверждены посещаемостью
	starts := slotStarts(resp.Slots)
	assert.Equal(t, "09:00", starts[0])
	assert.Len(t, resp.Slots, 18)

	for _, slot := range resp.Slots {
		assert.Equal(t, domain.SlotSourceAttendance, slot.Source)
		assert.Equal(t, domain.SlotConfidenceConfirmed, slot.Confidence)
		assert.Equal(t, 1, slot.AvailableEmployees)
	}
}

func TestExecuteClockedOutEmployeeNotCounted(t *testing.T) {
	f := defaultFixture()
	f.owners = nil
	clockOut := time.Date(2026, 3, 4, 12, 0, 0, 0, testLoc)
	f.attendance = map[int64][]domain.AttendanceWindow{
		10: {{EmployeeID: 10, ClockIn: testNow.Add(-2 * time.Hour), ClockOut: &clockOut}},
	}
	uc := newTestUseCase(f)

	resp := execute(t, uc, testNow)

	starts := slotStarts(resp.Slots)
	// До 12:00 окно присутствия покрывает слот целиком
	assert.Contains(t, starts, "11:30")
	// После clock-out вне строгого окна срабатывает откат на ростер
	require.Contains(t, starts, "12:00")
	for _, slot := range resp.Slots {
		if slot.StartAt.Hour() >= 12 {
			assert.Equal(t, domain.SlotSourceRoster, slot.Source)
		} else {
			assert.Equal(t, domain.SlotSourceAttendance, slot.Source)
		}
	}
}

func TestExecuteAssignedSegmentRemovesProvider(t *testing.T) {
	f := defaultFixture()
	f.owners = nil
	f.segments = []domain.BookedSegment{{
		BookingID:  77,
		Category:   "barbering",
		StartAt:    time.Date(2026, 3, 5, 10, 0, 0, 0, testLoc),
		EndAt:      time.Date(2026, 3, 5, 10, 30, 0, 0, testLoc),
		EmployeeID: ptr.Ptr(int64(10)),
	}}
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)

	starts := slotStarts(resp.Slots)
	// Единственный сотрудник занят в 10:00 — слот пропадает
	assert.NotContains(t, starts, "10:00")
	assert.Contains(t, starts, "09:30")
	assert.Contains(t, starts, "10:30")
	assert.Len(t, resp.Slots, 17)
}

func TestExecuteHoldSegmentBlocksSlotUntilRemoved(t *testing.T) {
	f := defaultFixture()
	f.owners = nil
	uc := newTestUseCase(f)

	// Сегмент брони в статусе hold: хранилище отдаёт его наравне
	// с подтверждёнными, ёмкость занята
	holdSegments := &stubSegmentRepo{segments: []domain.BookedSegment{{
		BookingID:  80,
		Category:   "barbering",
		StartAt:    time.Date(2026, 3, 5, 10, 0, 0, 0, testLoc),
		EndAt:      time.Date(2026, 3, 5, 10, 30, 0, 0, testLoc),
		EmployeeID: ptr.Ptr(int64(10)),
	}}}
	uc.segmentRepo = holdSegments

	resp := execute(t, uc, thursday)
	assert.NotContains(t, slotStarts(resp.Slots), "10:00")

	// Hold истёк и сегмент исчез из выборки: повторный запрос
	// снова показывает слот
	holdSegments.segments = nil

	resp = execute(t, uc, thursday)
	assert.Contains(t, slotStarts(resp.Slots), "10:00")
	assert.Len(t, resp.Slots, 18)
}

func TestExecuteUnassignedSegmentEatsEmployeeFirst(t *testing.T) {
	f := defaultFixture()
	f.segments = []domain.BookedSegment{{
		BookingID: 78,
		Category:  "barbering",
		StartAt:   time.Date(2026, 3, 5, 10, 0, 0, 0, testLoc),
		EndAt:     time.Date(2026, 3, 5, 10, 30, 0, 0, testLoc),
	}}
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)

	var at10 *domain.Slot
	for i := range resp.Slots {
		if resp.Slots[i].StartAt.Format("15:04") == "10:00" {
			at10 = &resp.Slots[i]
		}
	}
	require.NotNil(t, at10)
	// Обезличенный сегмент съедает место сотрудника, владелец остаётся
	assert.Equal(t, 0, at10.AvailableEmployees)
	assert.Equal(t, 1, at10.AvailableOwners)
}

func TestExecuteSegmentOfOtherCategoryIgnored(t *testing.T) {
	f := defaultFixture()
	f.owners = nil
	f.segments = []domain.BookedSegment{{
		BookingID:  79,
		Category:   "spa",
		StartAt:    time.Date(2026, 3, 5, 10, 0, 0, 0, testLoc),
		EndAt:      time.Date(2026, 3, 5, 10, 30, 0, 0, testLoc),
		EmployeeID: ptr.Ptr(int64(10)),
	}}
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)
	assert.Len(t, resp.Slots, 18)
}

func TestExecuteWrapMidnightHours(t *testing.T) {
	f := defaultFixture()
	f.hours = weekdayHours("22:00", "02:00")
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)

	assert.Equal(t, []string{
		"00:00", "00:30", "01:00", "01:30",
		"22:00", "22:30", "23:00", "23:30",
	}, slotStarts(resp.Slots))
}

func TestExecuteOpenAroundTheClock(t *testing.T) {
	f := defaultFixture()
	f.hours = weekdayHours("00:00", "00:00")
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday)

	// 24 часа с шагом 30 минут
	assert.Len(t, resp.Slots, 48)
}

func TestExecuteMultiUnitBackToBack(t *testing.T) {
	f := defaultFixture()
	f.hours = weekdayHours("09:00", "11:00")
	f.services = []domain.CatalogService{
		{ID: 1, BusinessID: 1, Category: "barbering", DurationMinutes: 60},
	}
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday, domain.ServiceSpec{ServiceID: 1, Quantity: 2})

	// Две часовые единицы подряд помещаются только с 09:00
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:00", resp.Slots[0].StartAt.Format("15:04"))
	assert.Equal(t, "11:00", resp.Slots[0].EndAt.Format("15:04"))
}

func TestExecuteBottleneckCapacity(t *testing.T) {
	f := defaultFixture()
	f.owners = nil
	f.employees = []domain.Provider{
		{ID: 10, BusinessID: 1, Name: "Anna", Specialties: []string{"barbering"}},
		{ID: 11, BusinessID: 1, Name: "Vera", Specialties: []string{"barbering"}},
		{ID: 12, BusinessID: 1, Name: "Olga", Specialties: []string{"spa"}},
	}
	f.services = []domain.CatalogService{
		{ID: 1, BusinessID: 1, Category: "barbering", DurationMinutes: 30},
		{ID: 2, BusinessID: 1, Category: "spa", DurationMinutes: 30},
	}
	uc := newTestUseCase(f)

	resp := execute(t, uc, thursday,
		domain.ServiceSpec{ServiceID: 1, Quantity: 1},
		domain.ServiceSpec{ServiceID: 2, Quantity: 1},
	)

	require.NotEmpty(t, resp.Slots)
	// Ёмкость слота — минимум по единицам: spa даёт одного сотрудника
	for _, slot := range resp.Slots {
		assert.Equal(t, 1, slot.AvailableEmployees)
	}
}

func TestExecuteBusinessNotFound(t *testing.T) {
	f := defaultFixture()
	uc := newTestUseCase(f)
	uc.policyResolver = &stubPolicyResolver{err: policySvc.ErrBusinessNotFound}

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		Date:       thursday,
		Services:   []domain.ServiceSpec{{ServiceID: 1, Quantity: 1}},
		Now:        testNow,
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecuteInvalidInput(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		Date:       thursday,
		Now:        testNow,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
