package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/services"
)

type AuthHandler struct {
	authService     services.AuthService
	employeeService services.EmployeeService
	secureCookie    bool
	log             *zap.Logger
}

func NewAuthHandler(authService services.AuthService, employeeService services.EmployeeService, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		employeeService: employeeService,
		secureCookie:    secureCookie,
		log:             log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.log, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, res.Token, maxAge, "/", "", h.secureCookie, true)
	ok(c, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), currentClaims(c).SessionID()); err != nil {
		fail(c, h.log, err)
		return
	}
	c.SetCookie(TokenCookie, "", -1, "/", "", h.secureCookie, true)
	ok(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	employee, err := h.employeeService.Get(c.Request.Context(), currentClaims(c).EmployeeID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, employee)
}
