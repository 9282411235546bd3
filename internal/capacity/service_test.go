package capacity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lineflow-mfg/lineflow-backend/internal/lines"
	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
	"github.com/lineflow-mfg/lineflow-backend/internal/workorders"
	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

func testDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewWithGorm(gdb)
}

func testService(t *testing.T) (*Service, *lines.Repository, *db.Client) {
	t.Helper()
	client := testDB(t)
	lineRepo := lines.NewRepository(client)
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(client),
		Lines:  lineRepo,
		Queues: workorders.NewRepository(client),
		Clock:  clock.Frozen{Instant: time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	return svc, lineRepo, client
}

func seedLine(t *testing.T, repo *lines.Repository) *models.Line {
	t.Helper()
	line := &models.Line{Name: "SMT-1", HoursPerDay: 8, TimeMultiplier: 1, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), line))
	return line
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateOverrideRejectsOverlap(t *testing.T) {
	svc, lineRepo, _ := testService(t)
	line := seedLine(t, lineRepo)
	ctx := context.Background()

	_, err := svc.CreateOverride(ctx, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 12),
		EndDate:    day(2026, time.January, 16),
		TotalHours: 10,
	})
	require.NoError(t, err)

	// Overlapping a single day inside the range is rejected.
	_, err = svc.CreateOverride(ctx, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 16),
		EndDate:    day(2026, time.January, 20),
		TotalHours: 0,
	})
	require.True(t, errors.Is(err, errors.CodeConflict), "got %v", err)

	// An adjacent range is fine.
	_, err = svc.CreateOverride(ctx, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 19),
		EndDate:    day(2026, time.January, 20),
		TotalHours: 0,
	})
	require.NoError(t, err)
}

func TestCreateOverrideRejectsInvertedRange(t *testing.T) {
	svc, lineRepo, _ := testService(t)
	line := seedLine(t, lineRepo)

	_, err := svc.CreateOverride(context.Background(), OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 16),
		EndDate:    day(2026, time.January, 12),
		TotalHours: 8,
	})
	require.True(t, errors.Is(err, errors.CodeValidation))
}

func TestUpdateOverrideAllowsSameRange(t *testing.T) {
	svc, lineRepo, _ := testService(t)
	line := seedLine(t, lineRepo)
	ctx := context.Background()

	ov, err := svc.CreateOverride(ctx, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 12),
		EndDate:    day(2026, time.January, 16),
		TotalHours: 10,
	})
	require.NoError(t, err)

	// Updating an override never conflicts with itself.
	updated, err := svc.UpdateOverride(ctx, ov.ID, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 12),
		EndDate:    day(2026, time.January, 16),
		TotalHours: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 4.0, updated.TotalHours)
}

func TestAddOvertimeCreatesSingleDayOverride(t *testing.T) {
	svc, lineRepo, _ := testService(t)
	line := seedLine(t, lineRepo)

	ov, err := svc.AddOvertime(context.Background(), OvertimeParams{
		LineID: line.ID,
		Date:   day(2026, time.January, 10), // Saturday overtime
		Hours:  6,
	})
	require.NoError(t, err)
	require.True(t, ov.StartDate.Equal(ov.EndDate))
	require.Equal(t, 6.0, ov.TotalHours)
}

func TestCalendarResolvesSources(t *testing.T) {
	svc, lineRepo, _ := testService(t)
	line := seedLine(t, lineRepo)
	ctx := context.Background()

	_, err := svc.CreateOverride(ctx, OverrideParams{
		LineID:     line.ID,
		StartDate:  day(2026, time.January, 6),
		EndDate:    day(2026, time.January, 6),
		TotalHours: 0,
	})
	require.NoError(t, err)

	cal, err := svc.Calendar(ctx, line.ID, day(2026, time.January, 5), day(2026, time.January, 11))
	require.NoError(t, err)
	require.Len(t, cal.Days, 7)

	require.Equal(t, scheduling.SourceDefault, cal.Days[0].Source) // Monday, flat hours
	require.Equal(t, scheduling.SourceOverride, cal.Days[1].Source)
	require.Equal(t, 0.0, cal.Days[1].Hours)
	require.Equal(t, scheduling.SourceWeekend, cal.Days[5].Source)
}

func TestForecastComparesDemandToCapacity(t *testing.T) {
	svc, lineRepo, client := testService(t)
	line := seedLine(t, lineRepo)
	ctx := context.Background()

	// One queued 16h order ending Tuesday of the current week, two days late.
	end := day(2026, time.January, 6)
	pos := 1
	lineID := line.ID
	variance := 2
	wo := &models.WorkOrder{
		Number:              "WO-1",
		Customer:            "Acme",
		Assembly:            "A-100",
		Location:            "SMT PRODUCTION",
		ProcessingMinutes:   960,
		LineID:              &lineID,
		Position:            &pos,
		ScheduledEndDate:    &end,
		PromiseVarianceDays: &variance,
	}
	require.NoError(t, client.Gorm(ctx).Create(wo).Error)

	forecast, err := svc.Forecast(ctx, 2)
	require.NoError(t, err)
	require.Len(t, forecast, 1)
	require.Len(t, forecast[0].Weeks, 2)

	week := forecast[0].Weeks[0]
	require.Equal(t, day(2026, time.January, 5), week.WeekStart)
	require.Equal(t, 40.0, week.AvailableHours) // five 8h weekdays
	require.InDelta(t, 16.0, week.DemandHours, 0.01)
	require.InDelta(t, 0.4, week.Utilization, 0.01)
	require.Equal(t, 1, week.LateOrders)
	require.Equal(t, 0, forecast[0].Weeks[1].LateOrders)
}

func TestPipelineCountsByLocation(t *testing.T) {
	svc, _, client := testService(t)
	ctx := context.Background()

	seed := []*models.WorkOrder{
		{Number: "WO-1", Customer: "Acme", Assembly: "A-1", Location: "SMT PRODUCTION", ProcessingMinutes: 60},
		{Number: "WO-2", Customer: "Acme", Assembly: "A-2", Location: "SMT PRODUCTION", ProcessingMinutes: 60},
		{Number: "WO-3", Customer: "Acme", Assembly: "A-3", Location: "KITTING", ProcessingMinutes: 60},
		{Number: "WO-4", Customer: "Acme", Assembly: "A-4", Location: "SMT PRODUCTION", ProcessingMinutes: 60, IsComplete: true},
	}
	for _, wo := range seed {
		require.NoError(t, client.Gorm(ctx).Create(wo).Error)
	}

	counts, err := svc.Pipeline(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, counts["SMT PRODUCTION"])
	require.Equal(t, 1, counts["KITTING"])
}
