package detect_conflicts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
)

type stubPolicyResolver struct {
	policy *domain.BusinessPolicy
}

func (s *stubPolicyResolver) Resolve(_ context.Context, _ int64) (*domain.BusinessPolicy, error) {
	p := *s.policy
	p.Normalize()
	return &p, nil
}

type stubScanner struct {
	bookings []domain.Booking
}

func (s *stubScanner) FindFutureBookings(_ context.Context, _ int64, _, _ time.Time, limit int) ([]domain.Booking, error) {
	if len(s.bookings) > limit {
		return s.bookings[:limit], nil
	}
	return s.bookings, nil
}

// fakeOutbox хранит эмитированные сигналы в памяти с уникальностью
// (бронь, день) как настоящий outbox
type fakeOutbox struct {
	signals map[string]*domain.ConflictSignal
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{signals: make(map[string]*domain.ConflictSignal)}
}

func (o *fakeOutbox) key(bookingID int64, signalDate time.Time) string {
	return fmt.Sprintf("%d:%s", bookingID, signalDate.Format(domain.DateFormat))
}

func (o *fakeOutbox) WasSignaledOn(_ context.Context, bookingID int64, signalDate time.Time) (bool, error) {
	_, ok := o.signals[o.key(bookingID, signalDate)]
	return ok, nil
}

func (o *fakeOutbox) Emit(_ context.Context, signal *domain.ConflictSignal, signalDate time.Time) (bool, error) {
	k := o.key(signal.BookingID, signalDate)
	if _, ok := o.signals[k]; ok {
		return false, nil
	}
	o.signals[k] = signal
	return true, nil
}

// stubEngine отдаёт заготовленные слоты по дате; ошибка по дате
// имитирует сбой пересчёта одной брони
type stubEngine struct {
	slotsByDate map[string][]domain.Slot
	failDates   map[string]error
}

func (s *stubEngine) Execute(_ context.Context, req *computeSlots.Request) (*computeSlots.Response, error) {
	key := req.Date.Format(domain.DateFormat)
	if err, ok := s.failDates[key]; ok {
		return nil, err
	}
	return &computeSlots.Response{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Slots:      s.slotsByDate[key],
	}, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingInvalidator struct {
	dropped []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, businessID int64) {
	r.dropped = append(r.dropped, businessID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testLoc  = time.UTC
	testNow  = time.Date(2026, 3, 4, 8, 0, 0, 0, testLoc)
	thursday = time.Date(2026, 3, 5, 0, 0, 0, 0, testLoc)
)

func activeBooking(id int64, scheduledAt time.Time) domain.Booking {
	return domain.Booking{
		ID:           id,
		BusinessID:   1,
		CustomerName: "Test Customer",
		ScheduledAt:  scheduledAt,
		Status:       domain.BookingStatusAccepted,
		Items: []domain.BookingItem{
			{ServiceID: 1, Quantity: 1, Status: domain.BookingItemStatusActive},
		},
	}
}

func slotAt(start time.Time) domain.Slot {
	return domain.Slot{
		StartAt:            start,
		EndAt:              start.Add(30 * time.Minute),
		AvailableEmployees: 1,
		Source:             domain.SlotSourceRoster,
		Confidence:         domain.SlotConfidenceTentative,
	}
}

func newTestUseCase(scanner *stubScanner, outbox *fakeOutbox, engine *stubEngine) *UseCase {
	policy := &domain.BusinessPolicy{BusinessID: 1, HorizonDays: 30, SlotIntervalMinutes: 30, BookingV2Enabled: true}
	return NewUseCase(
		&stubPolicyResolver{policy: policy},
		scanner,
		outbox,
		engine,
		passthroughTxManager{},
		nil,
		testLoc,
		nopLogger{},
	)
}

func baseRequest() *Request {
	return &Request{
		BusinessID: 1,
		Reason:     domain.ConflictReasonHoursChanged,
		Detail:     "часы на четверг сокращены",
		Now:        testNow,
	}
}

func TestExecuteEmitsConflictForUnsatisfiableBooking(t *testing.T) {
	at10 := thursday.Add(10 * time.Hour)
	scanner := &stubScanner{bookings: []domain.Booking{
		activeBooking(100, at10),
		activeBooking(101, thursday.Add(14*time.Hour)),
	}}
	outbox := newFakeOutbox()
	// Пересчитанный день содержит 14:00, но не 10:00
	engine := &stubEngine{slotsByDate: map[string][]domain.Slot{
		"2026-03-05": {slotAt(thursday.Add(14 * time.Hour))},
	}}
	uc := newTestUseCase(scanner, outbox, engine)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Scanned)
	assert.Equal(t, 1, resp.Conflicts)

	require.Len(t, outbox.signals, 1)
	for _, signal := range outbox.signals {
		assert.Equal(t, int64(100), signal.BookingID)
		assert.Equal(t, at10, signal.ScheduledAt)
		assert.Equal(t, domain.ConflictReasonHoursChanged, signal.Reason)
		assert.Equal(t, "часы на четверг сокращены", signal.Detail)
		assert.Equal(t, domain.ConflictPayloadSchemaVersion, signal.SchemaVersion)
		assert.NotEmpty(t, signal.EventID)
	}
}

func TestExecuteSecondRunEmitsNothing(t *testing.T) {
	scanner := &stubScanner{bookings: []domain.Booking{
		activeBooking(100, thursday.Add(10 * time.Hour)),
	}}
	outbox := newFakeOutbox()
	engine := &stubEngine{} // пустой день: бронь невыполнима
	uc := newTestUseCase(scanner, outbox, engine)

	first, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Conflicts)

	// Повторный прогон пропускает бронь по дедупликации:
	// перепроверки не было, счётчики пустые
	second, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 0, second.Conflicts)
	assert.Len(t, outbox.signals, 1)
}

func TestExecuteRecomputeFailureSkipsBookingOnly(t *testing.T) {
	friday := thursday.AddDate(0, 0, 1)
	scanner := &stubScanner{bookings: []domain.Booking{
		activeBooking(100, thursday.Add(10*time.Hour)),
		activeBooking(101, friday.Add(10*time.Hour)),
	}}
	outbox := newFakeOutbox()
	engine := &stubEngine{
		failDates: map[string]error{"2026-03-05": errors.New("storage down")},
	}
	uc := newTestUseCase(scanner, outbox, engine)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	// Четверг упал и пропущен (в счётчик не входит),
	// пятница проверена и конфликтует
	assert.Equal(t, 1, resp.Scanned)
	assert.Equal(t, 1, resp.Conflicts)
}

func TestExecuteFullyCancelledBookingSkipped(t *testing.T) {
	booking := activeBooking(100, thursday.Add(10*time.Hour))
	booking.Items[0].Status = domain.BookingItemStatusCancelled
	scanner := &stubScanner{bookings: []domain.Booking{booking}}
	outbox := newFakeOutbox()
	uc := newTestUseCase(scanner, outbox, &stubEngine{})

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Scanned)
	assert.Equal(t, 0, resp.Conflicts)
	assert.Empty(t, outbox.signals)
}

func TestExecuteSatisfiableBookingNotSignaled(t *testing.T) {
	at10 := thursday.Add(10 * time.Hour)
	scanner := &stubScanner{bookings: []domain.Booking{activeBooking(100, at10)}}
	outbox := newFakeOutbox()
	engine := &stubEngine{slotsByDate: map[string][]domain.Slot{
		"2026-03-05": {slotAt(at10)},
	}}
	uc := newTestUseCase(scanner, outbox, engine)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	// Бронь перепроверена, конфликта нет
	assert.Equal(t, 1, resp.Scanned)
	assert.Equal(t, 0, resp.Conflicts)
	assert.Empty(t, outbox.signals)
}

func TestExecuteDropsContextCacheBeforeScan(t *testing.T) {
	at10 := thursday.Add(10 * time.Hour)
	scanner := &stubScanner{bookings: []domain.Booking{activeBooking(100, at10)}}
	engine := &stubEngine{slotsByDate: map[string][]domain.Slot{
		"2026-03-05": {slotAt(at10)},
	}}
	invalidator := &recordingInvalidator{}
	uc := newTestUseCase(scanner, newFakeOutbox(), engine)
	uc.contextInvalidator = invalidator

	_, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, invalidator.dropped)
}

func TestExecuteInvalidReason(t *testing.T) {
	uc := newTestUseCase(&stubScanner{}, newFakeOutbox(), &stubEngine{})

	req := baseRequest()
	req.Reason = "sun_exploded"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
