package outbox

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

func TestWasSignaledOn(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	signalDate := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	t.Run("existing signal found", func(t *testing.T) {
		mock.ExpectQuery("SELECT 1 FROM conflict_events").
			WithArgs(int64(100), "2026-03-04").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		signaled, err := repo.WasSignaledOn(context.Background(), 100, signalDate)
		require.NoError(t, err)
		assert.True(t, signaled)
	})

	t.Run("no signal yet", func(t *testing.T) {
		mock.ExpectQuery("SELECT 1 FROM conflict_events").
			WithArgs(int64(100), "2026-03-04").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		signaled, err := repo.WasSignaledOn(context.Background(), 100, signalDate)
		require.NoError(t, err)
		assert.False(t, signaled)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmit(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	signalDate := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	signal := &domain.ConflictSignal{
		EventID:       "b7e0a7de-1111-2222-3333-444455556666",
		BusinessID:    1,
		BookingID:     100,
		ScheduledAt:   time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		CustomerName:  "Test Customer",
		Reason:        domain.ConflictReasonHoursChanged,
		Detail:        "hours shortened",
		DetectedAt:    time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC),
		SchemaVersion: domain.ConflictPayloadSchemaVersion,
	}

	t.Run("new signal is inserted", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO conflict_events .+ ON CONFLICT \\(booking_id, signal_date\\) DO NOTHING").
			WithArgs(
				signal.EventID,
				signal.BusinessID,
				signal.BookingID,
				"2026-03-04",
				signal.ScheduledAt,
				signal.CustomerName,
				string(signal.Reason),
				signal.Detail,
				signal.SchemaVersion,
				signal.DetectedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		inserted, err := repo.Emit(context.Background(), signal, signalDate)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("duplicate signal is suppressed", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO conflict_events").
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.Emit(context.Background(), signal, signalDate)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
