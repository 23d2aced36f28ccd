package models

import "time"

type AcademicYear struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	Subjects    []Subject `json:"subjects,omitempty" gorm:"foreignKey:YearID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Subject struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	YearID      uint      `json:"year_id" gorm:"not null;index"`
	Books       []Book    `json:"books,omitempty" gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Book struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:200;not null"`
	PageCount   int    `json:"page_count" gorm:"not null;check:chk_books_page_count,page_count > 0"`
	Description string `json:"description" gorm:"type:text"`
	IsActive    bool   `json:"is_active" gorm:"not null"`
	SubjectID   uint   `json:"subject_id" gorm:"not null;index"`
	// Order history outlives the book; the reference is cleared, the snapshot stays.
	OrderItems []OrderItem `json:"-" gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// BookView is a book joined with the names of its subject and year.
type BookView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	PageCount   int    `json:"page_count"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	YearID      uint   `json:"year_id"`
	YearName    string `json:"year_name"`
}

type CatalogCounts struct {
	Years    int64 `json:"years"`
	Subjects int64 `json:"subjects"`
	Books    int64 `json:"books"`
}
