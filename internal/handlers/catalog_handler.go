package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	log            *zap.Logger
}

func NewCatalogHandler(catalogService services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// Browse lists active books grouped by academic year.
func (h *CatalogHandler) Browse(c *gin.Context) {
	shelves, err := h.catalogService.Browse(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, shelves)
}

// Years

func (h *CatalogHandler) ListYears(c *gin.Context) {
	years, err := h.catalogService.ListYears(c.Request.Context(), false)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, years)
}

func (h *CatalogHandler) CreateYear(c *gin.Context) {
	var in services.YearInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	year, err := h.catalogService.CreateYear(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, year)
}

func (h *CatalogHandler) UpdateYear(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.YearInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	year, err := h.catalogService.UpdateYear(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, year)
}

func (h *CatalogHandler) DeleteYear(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.catalogService.DeleteYear(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"id": id})
}

// Subjects

func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	yearID, err := queryUint(c, "year_id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	subjects, err := h.catalogService.ListSubjects(c.Request.Context(), yearID, false)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, subjects)
}

func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var in services.SubjectInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	subject, err := h.catalogService.CreateSubject(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, subject)
}

func (h *CatalogHandler) UpdateSubject(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.SubjectInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	subject, err := h.catalogService.UpdateSubject(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, subject)
}

func (h *CatalogHandler) DeleteSubject(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.catalogService.DeleteSubject(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"id": id})
}

// Books

func (h *CatalogHandler) ListBooks(c *gin.Context) {
	subjectID, err := queryUint(c, "subject_id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	books, err := h.catalogService.ListBooks(c.Request.Context(), subjectID, false)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, books)
}

func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var in services.BookInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	book, err := h.catalogService.CreateBook(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, book)
}

func (h *CatalogHandler) UpdateBook(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.BookInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	book, err := h.catalogService.UpdateBook(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, book)
}

func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.catalogService.DeleteBook(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"id": id})
}
