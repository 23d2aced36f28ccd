package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printcalc/internal/apperrors"
)

func TestCatalogHierarchy(t *testing.T) {
	repo := newFakeCatalog()
	svc := NewCatalogService(repo)
	ctx := context.Background()

	year, err := svc.CreateYear(ctx, YearInput{Name: " First Year "})
	require.NoError(t, err)
	assert.Equal(t, "First Year", year.Name)
	assert.True(t, year.IsActive)

	_, err = svc.CreateSubject(ctx, SubjectInput{Name: "Math", YearID: 999})
	assert.True(t, apperrors.IsNotFound(err))

	subject, err := svc.CreateSubject(ctx, SubjectInput{Name: "Math", YearID: year.ID})
	require.NoError(t, err)

	_, err = svc.CreateBook(ctx, BookInput{Name: "Algebra", PageCount: 0, SubjectID: subject.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	book, err := svc.CreateBook(ctx, BookInput{Name: "Algebra", PageCount: 120, SubjectID: subject.ID})
	require.NoError(t, err)

	view, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", view.SubjectName)
	assert.Equal(t, "First Year", view.YearName)

	require.NoError(t, svc.DeleteYear(ctx, year.ID))
	_, err = svc.GetBook(ctx, book.ID)
	assert.True(t, apperrors.IsNotFound(err))
	subjects, err := svc.ListSubjects(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestBrowseHidesInactive(t *testing.T) {
	repo := newFakeCatalog()
	svc := NewCatalogService(repo)
	ctx := context.Background()
	visible := repo.seedBook("Algebra", 100)
	hidden := repo.seedBook("Biology", 100)

	inactive := false
	hiddenView, err := svc.GetBook(ctx, hidden.ID)
	require.NoError(t, err)
	_, err = svc.UpdateSubject(ctx, hiddenView.SubjectID, SubjectInput{
		Name: hiddenView.SubjectName, YearID: hiddenView.YearID, IsActive: &inactive,
	})
	require.NoError(t, err)

	shelves, err := svc.Browse(ctx)
	require.NoError(t, err)
	require.Len(t, shelves, 2)

	var books []uint
	for _, shelf := range shelves {
		assert.NotNil(t, shelf.Books)
		for _, b := range shelf.Books {
			books = append(books, b.ID)
		}
	}
	assert.Equal(t, []uint{visible.ID}, books)
}

func TestUpdateBookMovesSubject(t *testing.T) {
	repo := newFakeCatalog()
	svc := NewCatalogService(repo)
	ctx := context.Background()
	book := repo.seedBook("Algebra", 100)
	other := repo.seedBook("Biology", 100)

	_, err := svc.UpdateBook(ctx, book.ID, BookInput{Name: "Algebra", PageCount: 90, SubjectID: 999})
	assert.True(t, apperrors.IsNotFound(err))

	updated, err := svc.UpdateBook(ctx, book.ID, BookInput{Name: "Algebra II", PageCount: 90, SubjectID: other.SubjectID})
	require.NoError(t, err)
	assert.Equal(t, other.SubjectID, updated.SubjectID)
	assert.Equal(t, 90, updated.PageCount)
	assert.True(t, updated.IsActive)
}
