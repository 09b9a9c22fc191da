package shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/realtime"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

type ShiftServiceImpl struct {
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	guard        *scope.Guard
	hub          *realtime.Hub
}

func NewShiftService(shiftRepo shift.ShiftRepository, employeeRepo employee.EmployeeRepository, guard *scope.Guard, hub *realtime.Hub) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		guard:        guard,
		hub:          hub,
	}
}

// GetForEmployee implements shift.ShiftService. An employee with no
// registered shift gets the system default, flagged as such.
func (s *ShiftServiceImpl) GetForEmployee(ctx context.Context, sc user.Scope, employeeID string) (shift.ShiftResponse, error) {
	if err := s.guard.Allows(ctx, sc, employeeID); err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ToResponse(shift.DefaultShift(employeeID), true), nil
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift.ToResponse(sh, false), nil
}

// Upsert implements shift.ShiftService. The replaced definition applies to
// classifications from this moment on; past records are never reclassified.
func (s *ShiftServiceImpl) Upsert(ctx context.Context, req shift.UpsertShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return shift.ShiftResponse{}, err
	}

	start, _ := shift.ParseTimeOfDay(req.StartTime)
	end, _ := shift.ParseTimeOfDay(req.EndTime)

	saved, err := s.shiftRepo.Upsert(ctx, shift.Shift{
		ID:         uuid.New().String(),
		EmployeeID: req.EmployeeID,
		StartTime:  start,
		EndTime:    end,
		Weekdays:   req.Weekdays,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to upsert shift: %w", err)
	}

	resp := shift.ToResponse(saved, false)
	s.hub.PublishTo(saved.EmployeeID, realtime.Envelope{
		Type:    realtime.EventShiftUpdate,
		Payload: resp,
	})
	return resp, nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, employeeID string) error {
	if err := s.shiftRepo.Delete(ctx, employeeID); err != nil {
		return err
	}

	s.hub.PublishTo(employeeID, realtime.Envelope{
		Type:    realtime.EventShiftUpdate,
		Payload: shift.ToResponse(shift.DefaultShift(employeeID), true),
	})
	return nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.ToResponse(sh, false))
	}
	return responses, nil
}

var _ shift.ShiftService = (*ShiftServiceImpl)(nil)
