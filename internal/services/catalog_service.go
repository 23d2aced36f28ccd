package services

import (
	"context"

	"printcalc/internal/models"
	"printcalc/internal/repository"
)

type YearInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type SubjectInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	YearID      uint   `json:"year_id" validate:"required"`
	IsActive    *bool  `json:"is_active"`
}

type BookInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	PageCount   int    `json:"page_count" validate:"gt=0"`
	SubjectID   uint   `json:"subject_id" validate:"required"`
	IsActive    *bool  `json:"is_active"`
}

// YearShelf is an academic year with the books offered under it.
type YearShelf struct {
	Year  models.AcademicYear `json:"year"`
	Books []models.BookView   `json:"books"`
}

type CatalogService interface {
	ListYears(ctx context.Context, activeOnly bool) ([]models.AcademicYear, error)
	GetYear(ctx context.Context, id uint) (*models.AcademicYear, error)
	CreateYear(ctx context.Context, in YearInput) (*models.AcademicYear, error)
	UpdateYear(ctx context.Context, id uint, in YearInput) (*models.AcademicYear, error)
	DeleteYear(ctx context.Context, id uint) error

	ListSubjects(ctx context.Context, yearID uint, activeOnly bool) ([]models.Subject, error)
	CreateSubject(ctx context.Context, in SubjectInput) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id uint, in SubjectInput) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint) error

	ListBooks(ctx context.Context, subjectID uint, activeOnly bool) ([]models.BookView, error)
	GetBook(ctx context.Context, id uint) (*models.BookView, error)
	CreateBook(ctx context.Context, in BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, id uint, in BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, id uint) error

	Browse(ctx context.Context) ([]YearShelf, error)
	Counts(ctx context.Context) (*models.CatalogCounts, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func activeOr(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}

// Years

func (s *catalogService) ListYears(ctx context.Context, activeOnly bool) ([]models.AcademicYear, error) {
	return s.catalogRepo.ListYears(ctx, activeOnly)
}

func (s *catalogService) GetYear(ctx context.Context, id uint) (*models.AcademicYear, error) {
	return s.catalogRepo.GetYear(ctx, id)
}

func (s *catalogService) CreateYear(ctx context.Context, in YearInput) (*models.AcademicYear, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	year := &models.AcademicYear{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    activeOr(in.IsActive, true),
	}
	if err := s.catalogRepo.CreateYear(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *catalogService) UpdateYear(ctx context.Context, id uint, in YearInput) (*models.AcademicYear, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	year, err := s.catalogRepo.GetYear(ctx, id)
	if err != nil {
		return nil, err
	}
	year.Name = in.Name
	year.Description = in.Description
	year.IsActive = activeOr(in.IsActive, year.IsActive)
	if err := s.catalogRepo.UpdateYear(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *catalogService) DeleteYear(ctx context.Context, id uint) error {
	return s.catalogRepo.DeleteYear(ctx, id)
}

// Subjects

func (s *catalogService) ListSubjects(ctx context.Context, yearID uint, activeOnly bool) ([]models.Subject, error) {
	return s.catalogRepo.ListSubjects(ctx, yearID, activeOnly)
}

func (s *catalogService) CreateSubject(ctx context.Context, in SubjectInput) (*models.Subject, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetYear(ctx, in.YearID); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		Name:        in.Name,
		Description: in.Description,
		YearID:      in.YearID,
		IsActive:    activeOr(in.IsActive, true),
	}
	if err := s.catalogRepo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *catalogService) UpdateSubject(ctx context.Context, id uint, in SubjectInput) (*models.Subject, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	subject, err := s.catalogRepo.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.YearID != subject.YearID {
		if _, err := s.catalogRepo.GetYear(ctx, in.YearID); err != nil {
			return nil, err
		}
	}
	subject.Name = in.Name
	subject.Description = in.Description
	subject.YearID = in.YearID
	subject.IsActive = activeOr(in.IsActive, subject.IsActive)
	if err := s.catalogRepo.UpdateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id uint) error {
	return s.catalogRepo.DeleteSubject(ctx, id)
}

// Books

func (s *catalogService) ListBooks(ctx context.Context, subjectID uint, activeOnly bool) ([]models.BookView, error) {
	return s.catalogRepo.ListBookViews(ctx, subjectID, activeOnly)
}

func (s *catalogService) GetBook(ctx context.Context, id uint) (*models.BookView, error) {
	return s.catalogRepo.GetBookView(ctx, id)
}

func (s *catalogService) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetSubject(ctx, in.SubjectID); err != nil {
		return nil, err
	}
	book := &models.Book{
		Name:        in.Name,
		Description: in.Description,
		PageCount:   in.PageCount,
		SubjectID:   in.SubjectID,
		IsActive:    activeOr(in.IsActive, true),
	}
	if err := s.catalogRepo.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *catalogService) UpdateBook(ctx context.Context, id uint, in BookInput) (*models.Book, error) {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	book, err := s.catalogRepo.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SubjectID != book.SubjectID {
		if _, err := s.catalogRepo.GetSubject(ctx, in.SubjectID); err != nil {
			return nil, err
		}
	}
	book.Name = in.Name
	book.Description = in.Description
	book.PageCount = in.PageCount
	book.SubjectID = in.SubjectID
	book.IsActive = activeOr(in.IsActive, book.IsActive)
	if err := s.catalogRepo.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *catalogService) DeleteBook(ctx context.Context, id uint) error {
	return s.catalogRepo.DeleteBook(ctx, id)
}

// Browse groups the active books under their active years, in year order.
func (s *catalogService) Browse(ctx context.Context) ([]YearShelf, error) {
	years, err := s.catalogRepo.ListYears(ctx, true)
	if err != nil {
		return nil, err
	}
	books, err := s.catalogRepo.ListBookViews(ctx, 0, true)
	if err != nil {
		return nil, err
	}

	byYear := make(map[uint][]models.BookView, len(years))
	for _, b := range books {
		byYear[b.YearID] = append(byYear[b.YearID], b)
	}

	shelves := make([]YearShelf, 0, len(years))
	for _, y := range years {
		shelf := YearShelf{Year: y, Books: byYear[y.ID]}
		if shelf.Books == nil {
			shelf.Books = []models.BookView{}
		}
		shelves = append(shelves, shelf)
	}
	return shelves, nil
}

func (s *catalogService) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	return s.catalogRepo.Counts(ctx)
}
