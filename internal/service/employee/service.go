package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	clock        calendar.Clock
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	clock calendar.Clock,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		clock:        clock,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, actor auth.EmployeeContext, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !actor.IsAdmin {
		return employee.EmployeeResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	if _, err := s.employeeRepo.GetByEmail(ctx, req.Email); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	joinDate, _ := validator.IsValidDate(req.JoinDate)
	emp := employee.Employee{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Email:               req.Email,
		EmploymentClass:     employee.EmploymentClass(req.EmploymentClass),
		JoinDate:            calendar.DateOf(joinDate.In(calendar.JST)),
		IsAdmin:             req.IsAdmin,
		BaseSalary:          req.BaseSalary,
		DefaultBreakMinutes: req.DefaultBreakMinutes,
		PrescribedWorkHours: req.PrescribedWorkHours,
		AllowanceMasterIDs:  req.AllowanceMasterIDs,
		PasswordHash:        string(hash),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.LeaveDate != nil {
		leaveDate, _ := validator.IsValidDate(*req.LeaveDate)
		d := calendar.DateOf(leaveDate.In(calendar.JST))
		emp.LeaveDate = &d
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(created), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actor auth.EmployeeContext, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !actor.IsAdmin {
		return employee.EmployeeResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil && *req.Email != emp.Email {
		if _, err := s.employeeRepo.GetByEmail(ctx, *req.Email); err == nil {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		emp.Email = *req.Email
	}
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.EmploymentClass != nil {
		emp.EmploymentClass = employee.EmploymentClass(*req.EmploymentClass)
	}
	if req.JoinDate != nil {
		joinDate, _ := validator.IsValidDate(*req.JoinDate)
		emp.JoinDate = calendar.DateOf(joinDate.In(calendar.JST))
	}
	if req.LeaveDate != nil {
		if *req.LeaveDate == "" {
			emp.LeaveDate = nil
		} else {
			leaveDate, _ := validator.IsValidDate(*req.LeaveDate)
			d := calendar.DateOf(leaveDate.In(calendar.JST))
			emp.LeaveDate = &d
		}
	}
	if req.IsAdmin != nil {
		emp.IsAdmin = *req.IsAdmin
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.DefaultBreakMinutes != nil {
		emp.DefaultBreakMinutes = *req.DefaultBreakMinutes
	}
	if req.PrescribedWorkHours != nil {
		emp.PrescribedWorkHours = *req.PrescribedWorkHours
	}
	if req.AllowanceMasterIDs != nil {
		emp.AllowanceMasterIDs = req.AllowanceMasterIDs
	}
	emp.UpdatedAt = now

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.toResponse(emp), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, actor auth.EmployeeContext, id string) (employee.EmployeeResponse, error) {
	if !actor.CanActFor(id) {
		return employee.EmployeeResponse{}, auth.ErrNotResourceOwner
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, actor auth.EmployeeContext, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if !actor.IsAdmin {
		return employee.ListEmployeeResponse{}, auth.ErrAdminPrivilegeRequired
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Employees:  []employee.EmployeeResponse{},
	}
	for _, emp := range employees {
		resp.Employees = append(resp.Employees, s.toResponse(emp))
	}
	return resp, nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, actor auth.EmployeeContext, id string, leaveDate string) (employee.EmployeeResponse, error) {
	if !actor.IsAdmin {
		return employee.EmployeeResponse{}, auth.ErrAdminPrivilegeRequired
	}

	parsed, ok := validator.IsValidDate(leaveDate)
	if !ok {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "leave_date",
			Message: "leave_date must be a valid date (YYYY-MM-DD)",
		}}
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	d := calendar.DateOf(parsed.In(calendar.JST))
	emp.LeaveDate = &d
	emp.UpdatedAt = s.clock.Now().In(calendar.JST)

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return s.toResponse(emp), nil
}

func (s *EmployeeServiceImpl) toResponse(emp employee.Employee) employee.EmployeeResponse {
	today := calendar.DateOf(s.clock.Now().In(calendar.JST))

	resp := employee.EmployeeResponse{
		ID:                  emp.ID,
		Name:                emp.Name,
		Email:               emp.Email,
		EmploymentClass:     string(emp.EmploymentClass),
		JoinDate:            emp.JoinDate.Format("2006-01-02"),
		IsAdmin:             emp.IsAdmin,
		IsActive:            emp.ActiveOn(today),
		BaseSalary:          emp.BaseSalary,
		DefaultBreakMinutes: emp.DefaultBreakMinutes,
		PrescribedWorkHours: emp.PrescribedWorkHours,
		AllowanceMasterIDs:  emp.AllowanceMasterIDs,
		CreatedAt:           emp.CreatedAt.In(calendar.JST).Format(time.RFC3339),
		UpdatedAt:           emp.UpdatedAt.In(calendar.JST).Format(time.RFC3339),
	}
	if resp.AllowanceMasterIDs == nil {
		resp.AllowanceMasterIDs = []string{}
	}
	if emp.LeaveDate != nil {
		v := emp.LeaveDate.Format("2006-01-02")
		resp.LeaveDate = &v
	}
	return resp
}
