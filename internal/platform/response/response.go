package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// Body is the JSON envelope returned by every endpoint.
type Body struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    string      `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// Paginated writes 200 with a page of items.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	c.JSON(http.StatusOK, Body{
		Success: true,
		Data:    items,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// BadRequest writes 400 with message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Body{Error: message})
}

// Error maps a classified error to its HTTP status. Unclassified errors become 500
// without leaking their text.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := apperror.KindOf(err)
	status := StatusFor(kind)

	message := err.Error()
	var appErr *apperror.Error
	if kind == apperror.KindStorage || kind == apperror.KindUnknown {
		message = http.StatusText(status)
	} else if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.AbortWithStatusJSON(status, Body{
		Error:   message,
		Details: apperror.DetailsOf(err),
	})
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindConflict, apperror.KindInvalidTransition:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
