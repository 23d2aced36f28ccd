package services

import (
	"context"
	"strings"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/repository"
)

type CreateEmployeeInput struct {
	Username string      `json:"username" validate:"required,min=3,max=80"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	FullName string      `json:"full_name" validate:"required,max=120"`
	Phone    string      `json:"phone" validate:"max=20"`
	Role     models.Role `json:"role"`
}

type UpdateEmployeeInput struct {
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

type EmployeeService interface {
	List(ctx context.Context) ([]models.Employee, error)
	Get(ctx context.Context, id uint) (*models.Employee, error)
	Create(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error)
	Update(ctx context.Context, id uint, in UpdateEmployeeInput) (*models.Employee, error)
	// Delete removes a staff account. Administrator accounts cannot be deleted.
	Delete(ctx context.Context, id uint) error
	Summary(ctx context.Context) (*models.EmployeeSummary, error)
	// EnsureAdmin creates in as an administrator unless one already exists.
	EnsureAdmin(ctx context.Context, in CreateEmployeeInput) (bool, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo}
}

func (s *employeeService) List(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.GetAll(ctx)
}

func (s *employeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *employeeService) Create(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error) {
	in.Username = strings.ToLower(trimmed(in.Username))
	in.FullName = trimmed(in.FullName)
	in.Phone = trimmed(in.Phone)
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperrors.Validation("role", "must be one of: admin, staff")
	}

	if _, err := s.employeeRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.Conflict("username already exists")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	employee := &models.Employee{
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, id uint, in UpdateEmployeeInput) (*models.Employee, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := trimmed(*in.FullName)
		if name == "" {
			return nil, apperrors.Validation("full_name", "is required")
		}
		employee.FullName = name
	}
	if in.Phone != nil {
		employee.Phone = trimmed(*in.Phone)
	}
	if in.IsActive != nil {
		if !*in.IsActive && employee.IsAdmin() {
			return nil, apperrors.Forbidden("administrator accounts cannot be deactivated")
		}
		employee.IsActive = *in.IsActive
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hash
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if employee.IsAdmin() {
		return apperrors.Forbidden("administrator accounts cannot be deleted")
	}
	return s.employeeRepo.Delete(ctx, id)
}

func (s *employeeService) Summary(ctx context.Context) (*models.EmployeeSummary, error) {
	return s.employeeRepo.Summary(ctx, 5)
}

func (s *employeeService) EnsureAdmin(ctx context.Context, in CreateEmployeeInput) (bool, error) {
	admins, err := s.employeeRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if admins > 0 {
		return false, nil
	}
	in.Role = models.RoleAdmin
	if _, err := s.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}
