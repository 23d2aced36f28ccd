package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/apperrors"
)

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeNotFound:        http.StatusNotFound,
	apperrors.CodeValidation:      http.StatusUnprocessableEntity,
	apperrors.CodeConfiguration:   http.StatusInternalServerError,
	apperrors.CodeUnauthenticated: http.StatusUnauthorized,
	apperrors.CodeForbidden:       http.StatusForbidden,
	apperrors.CodeConflict:        http.StatusConflict,
	apperrors.CodeRateLimited:     http.StatusTooManyRequests,
	apperrors.CodeInternal:        http.StatusInternalServerError,
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func ok(c *gin.Context, data interface{}) { respond(c, http.StatusOK, data) }

func created(c *gin.Context, data interface{}) { respond(c, http.StatusCreated, data) }

// fail writes err as the error envelope. Failures that are not the caller's
// fault are logged and their cause is not echoed back.
func fail(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("internal server error", err)
	}
	status, found := statusByCode[appErr.Code]
	if !found {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
	}

	body := gin.H{"status": "error", "code": appErr.Code, "error": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body into dst, reporting malformed input as a
// validation error.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	if errors.Is(err, io.EOF) {
		return apperrors.Validation("body", "request body is required")
	}
	return apperrors.Validation("body", "invalid JSON body")
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(name, "must be a positive integer")
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(name, "must be an integer")
	}
	return n, nil
}

func queryUint(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation(name, "must be a non-negative integer")
	}
	return uint(n), nil
}
