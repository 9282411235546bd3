package lines

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	svc, err := NewService(ServiceParams{Repo: NewRepository(db.NewWithGorm(gdb))})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateLineDefaultsMultiplier(t *testing.T) {
	svc := testService(t)

	line, err := svc.Create(context.Background(), CreateLineParams{Name: "SMT-1", HoursPerDay: 8})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if line.TimeMultiplier != 1 {
		t.Fatalf("multiplier: got %v, want 1", line.TimeMultiplier)
	}
	if !line.IsActive {
		t.Fatal("new lines default to active")
	}
}

func TestCreateDedicatedLineRequiresCustomer(t *testing.T) {
	svc := testService(t)

	_, err := svc.Create(context.Background(), CreateLineParams{Name: "SMT-MCI", IsDedicated: true})
	if !errors.Is(err, errors.CodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateShiftValidatesTimes(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	line, err := svc.Create(ctx, CreateLineParams{Name: "SMT-1", HoursPerDay: 8})
	if err != nil {
		t.Fatalf("create line: %v", err)
	}

	_, err = svc.CreateShift(ctx, ShiftParams{
		LineID:     line.ID,
		Name:       "Day",
		StartTime:  "7:99",
		EndTime:    "16:30",
		ActiveDays: "1,2,3,4,5",
	})
	if !errors.Is(err, errors.CodeValidation) {
		t.Fatalf("bad clock: got %v, want validation error", err)
	}

	_, err = svc.CreateShift(ctx, ShiftParams{
		LineID:     line.ID,
		Name:       "Day",
		StartTime:  "07:30",
		EndTime:    "16:30",
		ActiveDays: "1,2,9",
	})
	if !errors.Is(err, errors.CodeValidation) {
		t.Fatalf("bad weekday: got %v, want validation error", err)
	}

	shift, err := svc.CreateShift(ctx, ShiftParams{
		LineID:      line.ID,
		Name:        "Day",
		ShiftNumber: 1,
		StartTime:   "07:30",
		EndTime:     "16:30",
		ActiveDays:  " 1, 2,3,4,5 ",
		Breaks: []BreakParams{
			{Name: "Lunch", StartTime: "11:30", EndTime: "12:30"},
		},
	})
	if err != nil {
		t.Fatalf("valid shift: %v", err)
	}
	if shift.ActiveDays != "1,2,3,4,5" {
		t.Fatalf("active days not normalized: %q", shift.ActiveDays)
	}
	if len(shift.Breaks) != 1 {
		t.Fatalf("breaks: got %d, want 1", len(shift.Breaks))
	}
}

func TestSetConfigUpserts(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	line, err := svc.Create(ctx, CreateLineParams{Name: "SMT-1", HoursPerDay: 8})
	if err != nil {
		t.Fatalf("create line: %v", err)
	}

	if _, err := svc.SetConfig(ctx, line.ID, ConfigParams{BufferMinutes: 20, RoundingMinutes: 30}); err != nil {
		t.Fatalf("first set: %v", err)
	}
	cfg, err := svc.SetConfig(ctx, line.ID, ConfigParams{BufferMinutes: 10, RoundingMinutes: 15})
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if cfg.BufferMinutes != 10 || cfg.RoundingMinutes != 15 {
		t.Fatalf("config not replaced: %+v", cfg)
	}

	got, err := svc.Get(ctx, line.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Config == nil || got.Config.BufferMinutes != 10 {
		t.Fatalf("persisted config: %+v", got.Config)
	}
}
