package repository

import (
	"context"

	"gorm.io/gorm"

	"printcalc/internal/models"
)

type CatalogRepository interface {
	CreateYear(ctx context.Context, year *models.AcademicYear) error
	GetYear(ctx context.Context, id uint) (*models.AcademicYear, error)
	ListYears(ctx context.Context, activeOnly bool) ([]models.AcademicYear, error)
	UpdateYear(ctx context.Context, year *models.AcademicYear) error
	DeleteYear(ctx context.Context, id uint) error

	CreateSubject(ctx context.Context, subject *models.Subject) error
	GetSubject(ctx context.Context, id uint) (*models.Subject, error)
	ListSubjects(ctx context.Context, yearID uint, activeOnly bool) ([]models.Subject, error)
	UpdateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubject(ctx context.Context, id uint) error

	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id uint) (*models.Book, error)
	GetBookView(ctx context.Context, id uint) (*models.BookView, error)
	ListBookViews(ctx context.Context, subjectID uint, activeOnly bool) ([]models.BookView, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id uint) error

	Counts(ctx context.Context) (*models.CatalogCounts, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// Years

func (r *catalogRepository) CreateYear(ctx context.Context, year *models.AcademicYear) error {
	return translate(r.db.WithContext(ctx).Create(year).Error, "academic year", year.Name)
}

func (r *catalogRepository) GetYear(ctx context.Context, id uint) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.db.WithContext(ctx).First(&year, id).Error; err != nil {
		return nil, translate(err, "academic year", id)
	}
	return &year, nil
}

func (r *catalogRepository) ListYears(ctx context.Context, activeOnly bool) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	q := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&years).Error
	return years, translate(err, "academic years", "")
}

func (r *catalogRepository) UpdateYear(ctx context.Context, year *models.AcademicYear) error {
	return translate(r.db.WithContext(ctx).Save(year).Error, "academic year", year.ID)
}

// DeleteYear removes the year; its subjects and books go with it through the
// ON DELETE CASCADE foreign keys.
func (r *catalogRepository) DeleteYear(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.AcademicYear{}, id), "academic year", id)
}

// Subjects

func (r *catalogRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	return translate(r.db.WithContext(ctx).Create(subject).Error, "subject", subject.Name)
}

func (r *catalogRepository) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, translate(err, "subject", id)
	}
	return &subject, nil
}

// ListSubjects returns subjects of yearID, or of every year when yearID is 0.
func (r *catalogRepository) ListSubjects(ctx context.Context, yearID uint, activeOnly bool) ([]models.Subject, error) {
	var subjects []models.Subject
	q := r.db.WithContext(ctx).Order("name")
	if yearID != 0 {
		q = q.Where("year_id = ?", yearID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&subjects).Error
	return subjects, translate(err, "subjects", "")
}

func (r *catalogRepository) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	return translate(r.db.WithContext(ctx).Save(subject).Error, "subject", subject.ID)
}

func (r *catalogRepository) DeleteSubject(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Subject{}, id), "subject", id)
}

// Books

func (r *catalogRepository) CreateBook(ctx context.Context, book *models.Book) error {
	return translate(r.db.WithContext(ctx).Create(book).Error, "book", book.Name)
}

func (r *catalogRepository) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translate(err, "book", id)
	}
	return &book, nil
}

func (r *catalogRepository) bookViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("books").
		Select(`books.id, books.name, books.page_count, books.description, books.is_active,
			books.subject_id, subjects.name AS subject_name,
			subjects.year_id, academic_years.name AS year_name`).
		Joins("JOIN subjects ON subjects.id = books.subject_id").
		Joins("JOIN academic_years ON academic_years.id = subjects.year_id")
}

func (r *catalogRepository) GetBookView(ctx context.Context, id uint) (*models.BookView, error) {
	var view models.BookView
	if err := r.bookViews(ctx).Where("books.id = ?", id).Take(&view).Error; err != nil {
		return nil, translate(err, "book", id)
	}
	return &view, nil
}

// ListBookViews returns books of subjectID, or of every subject when it is 0.
// activeOnly also hides books whose subject or year is inactive.
func (r *catalogRepository) ListBookViews(ctx context.Context, subjectID uint, activeOnly bool) ([]models.BookView, error) {
	var views []models.BookView
	q := r.bookViews(ctx).Order("academic_years.name, subjects.name, books.name")
	if subjectID != 0 {
		q = q.Where("books.subject_id = ?", subjectID)
	}
	if activeOnly {
		q = q.Where("books.is_active AND subjects.is_active AND academic_years.is_active")
	}
	err := q.Scan(&views).Error
	return views, translate(err, "books", "")
}

func (r *catalogRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	return translate(r.db.WithContext(ctx).Save(book).Error, "book", book.ID)
}

func (r *catalogRepository) DeleteBook(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Book{}, id), "book", id)
}

func (r *catalogRepository) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	var counts models.CatalogCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.AcademicYear{}).Count(&counts.Years).Error; err != nil {
		return nil, translate(err, "academic years", "")
	}
	if err := db.Model(&models.Subject{}).Count(&counts.Subjects).Error; err != nil {
		return nil, translate(err, "subjects", "")
	}
	if err := db.Model(&models.Book{}).Count(&counts.Books).Error; err != nil {
		return nil, translate(err, "books", "")
	}
	return &counts, nil
}
