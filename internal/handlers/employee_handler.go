package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/models"
	"printcalc/internal/services"
)

type EmployeeHandler struct {
	employeeService services.EmployeeService
	catalogService  services.CatalogService
	orderService    services.OrderService
	log             *zap.Logger
}

func NewEmployeeHandler(
	employeeService services.EmployeeService,
	catalogService services.CatalogService,
	orderService services.OrderService,
	log *zap.Logger,
) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		catalogService:  catalogService,
		orderService:    orderService,
		log:             log,
	}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, employees)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var in services.CreateEmployeeInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.log.Info("employee created",
		zap.Uint("employee_id", employee.ID),
		zap.Uint("created_by", currentClaims(c).EmployeeID))
	created(c, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.UpdateEmployeeInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	h.log.Info("employee deleted", zap.Uint("employee_id", id), zap.Uint("deleted_by", currentClaims(c).EmployeeID))
	ok(c, gin.H{"id": id})
}

type adminDashboard struct {
	Catalog   *models.CatalogCounts   `json:"catalog"`
	Orders    *models.OrderStats      `json:"orders"`
	Employees *models.EmployeeSummary `json:"employees"`
}

func (h *EmployeeHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		d   adminDashboard
		err error
	)
	if d.Catalog, err = h.catalogService.Counts(ctx); err != nil {
		fail(c, h.log, err)
		return
	}
	if d.Orders, err = h.orderService.Stats(ctx); err != nil {
		fail(c, h.log, err)
		return
	}
	if d.Employees, err = h.employeeService.Summary(ctx); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, d)
}
