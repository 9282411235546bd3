package lines

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

type ServiceParams struct {
	Logg *logger.Logger
	Repo *Repository
}

// Service owns line, shift and config management.
type Service struct {
	logg *logger.Logger
	repo *Repository
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Repo == nil {
		return nil, errors.New(errors.CodeInternal, "lines service requires a repository")
	}
	if p.Logg == nil {
		p.Logg = logger.Nop()
	}
	return &Service{logg: p.Logg, repo: p.Repo}, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Line, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Line, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateLineParams) (*models.Line, error) {
	if params.IsDedicated && (params.DedicatedCustomer == nil || strings.TrimSpace(*params.DedicatedCustomer) == "") {
		return nil, errors.New(errors.CodeValidation, "dedicated line requires a customer")
	}

	line := &models.Line{
		Name:              strings.TrimSpace(params.Name),
		Description:       params.Description,
		HoursPerDay:       params.HoursPerDay,
		TimeMultiplier:    params.TimeMultiplier,
		IsActive:          true,
		IsManualOnly:      params.IsManualOnly,
		IsDedicated:       params.IsDedicated,
		DedicatedCustomer: params.DedicatedCustomer,
		OrderPosition:     params.OrderPosition,
	}
	if params.IsActive != nil {
		line.IsActive = *params.IsActive
	}
	if line.TimeMultiplier <= 0 {
		line.TimeMultiplier = 1
	}

	if err := s.repo.Create(ctx, line); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.New(errors.CodeConflict, "line %q already exists", line.Name)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "creating line")
	}
	s.logg.WithLineID(line.ID).Info().Str("name", line.Name).Msg("line created")
	return line, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateLineParams) (*models.Line, error) {
	line, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Description != nil {
		line.Description = params.Description
	}
	if params.HoursPerDay != nil {
		line.HoursPerDay = *params.HoursPerDay
	}
	if params.TimeMultiplier != nil {
		line.TimeMultiplier = *params.TimeMultiplier
	}
	if params.IsActive != nil {
		line.IsActive = *params.IsActive
	}
	if params.IsManualOnly != nil {
		line.IsManualOnly = *params.IsManualOnly
	}
	if params.IsDedicated != nil {
		line.IsDedicated = *params.IsDedicated
	}
	if params.DedicatedCustomer != nil {
		line.DedicatedCustomer = params.DedicatedCustomer
	}
	if params.OrderPosition != nil {
		line.OrderPosition = *params.OrderPosition
	}
	if line.IsDedicated && (line.DedicatedCustomer == nil || strings.TrimSpace(*line.DedicatedCustomer) == "") {
		return nil, errors.New(errors.CodeValidation, "dedicated line requires a customer")
	}

	if err := s.repo.Update(ctx, line); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "updating line")
	}
	return line, nil
}

// CreateShift validates and stores a shift with its breaks.
func (s *Service) CreateShift(ctx context.Context, params ShiftParams) (*models.Shift, error) {
	if _, err := s.repo.FindByID(ctx, params.LineID); err != nil {
		return nil, err
	}
	if err := validateShiftParams(params); err != nil {
		return nil, err
	}

	active := true
	if params.IsActive != nil {
		active = *params.IsActive
	}
	shift := &models.Shift{
		LineID:      params.LineID,
		Name:        params.Name,
		ShiftNumber: params.ShiftNumber,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		ActiveDays:  normalizeActiveDays(params.ActiveDays),
		IsActive:    active,
	}
	for _, bp := range params.Breaks {
		shift.Breaks = append(shift.Breaks, models.ShiftBreak{
			Name:      bp.Name,
			StartTime: bp.StartTime,
			EndTime:   bp.EndTime,
			IsPaid:    bp.IsPaid,
		})
	}

	if err := s.repo.CreateShift(ctx, shift); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "creating shift")
	}
	return shift, nil
}

func (s *Service) DeleteShift(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteShift(ctx, id)
}

// SetConfig upserts the line's buffer and rounding knobs.
func (s *Service) SetConfig(ctx context.Context, lineID uuid.UUID, params ConfigParams) (*models.LineConfig, error) {
	if _, err := s.repo.FindByID(ctx, lineID); err != nil {
		return nil, err
	}
	cfg := &models.LineConfig{
		LineID:          lineID,
		BufferMinutes:   params.BufferMinutes,
		RoundingMinutes: params.RoundingMinutes,
	}
	if err := s.repo.UpsertConfig(ctx, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "saving line config")
	}
	return cfg, nil
}

func validateShiftParams(params ShiftParams) error {
	if !validClock(params.StartTime) || !validClock(params.EndTime) {
		return errors.New(errors.CodeValidation, "shift times must be HH:MM")
	}
	for _, bp := range params.Breaks {
		if !validClock(bp.StartTime) || !validClock(bp.EndTime) {
			return errors.New(errors.CodeValidation, "break times must be HH:MM")
		}
	}
	for _, tok := range strings.Split(params.ActiveDays, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 1 || n > 7 {
			return errors.New(errors.CodeValidation, "active_days must list weekday numbers 1-7")
		}
	}
	return nil
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

func normalizeActiveDays(csv string) string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return strings.Join(out, ",")
}
