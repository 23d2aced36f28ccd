package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"printcalc/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByUsername(ctx context.Context, username string) (*models.Employee, error)
	GetAll(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
	RecordLogin(ctx context.Context, id uint, at time.Time) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	Summary(ctx context.Context, recent int) (*models.EmployeeSummary, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translate(r.db.WithContext(ctx).Create(employee).Error, "employee", employee.Username)
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err, "employee", id)
	}
	return &employee, nil
}

func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error; err != nil {
		return nil, translate(err, "employee", username)
	}
	return &employee, nil
}

func (r *employeeRepository) GetAll(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&employees).Error
	return employees, translate(err, "employees", "")
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translate(r.db.WithContext(ctx).Save(employee).Error, "employee", employee.ID)
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Employee{}, id), "employee", id)
}

// RecordLogin bumps the login counter in SQL so concurrent logins are not lost.
func (r *employeeRepository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_login":  at,
		"login_count": gorm.Expr("login_count + 1"),
	})
	return deleted(res, "employee", id)
}

func (r *employeeRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("role = ?", role).Count(&n).Error
	return n, translate(err, "employees", "")
}

func (r *employeeRepository) Summary(ctx context.Context, recent int) (*models.EmployeeSummary, error) {
	var s models.EmployeeSummary
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Employee{}).Count(&s.Total).Error; err != nil {
		return nil, translate(err, "employees", "")
	}
	if err := db.Model(&models.Employee{}).Where("is_active = ?", true).Count(&s.Active).Error; err != nil {
		return nil, translate(err, "employees", "")
	}
	if err := db.Where("last_login IS NOT NULL").Order("last_login DESC").Limit(recent).Find(&s.RecentLogins).Error; err != nil {
		return nil, translate(err, "employees", "")
	}
	return &s, nil
}
