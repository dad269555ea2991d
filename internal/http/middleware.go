package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"refuge/internal/auth"
	"refuge/internal/domain"
	"refuge/internal/repository"
	"refuge/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxIdentity     = "identity"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		if id, ok := c.Get(ctxIdentity); ok {
			ev = ev.Int64("user_id", id.(auth.Identity).UserID)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("request_id", c.GetString(ctxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Str("request_id", c.GetString(ctxRequestID)).Interface("panic", recovered).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Code: "internal", Error: "internal error"})
	})
}

// authRequired проверяет токен и заводит локальную запись пользователя
func (s *Server) authRequired(c *gin.Context) {
	id, err := s.verifier.FromHeader(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Code: "unauthorized", Error: err.Error()})
		return
	}
	if _, err := s.Users.Ensure(c, id.UserID, id.Email, id.Role); err != nil {
		respondError(c, err)
		c.Abort()
		return
	}
	c.Set(ctxIdentity, id)
	c.Next()
}

func (s *Server) adminOnly(c *gin.Context) {
	if !identity(c).IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Code: "forbidden", Error: "admin role required"})
		return
	}
	c.Next()
}

func identity(c *gin.Context) auth.Identity {
	id, _ := c.Get(ctxIdentity)
	v, _ := id.(auth.Identity)
	return v
}

type errorBody struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	ProductID int64  `json:"product_id,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

func respondError(c *gin.Context, err error) {
	status, code := mapErrorToStatus(err)
	body := errorBody{Code: code, Error: err.Error()}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		body.ProductID = stockErr.ProductID
		available := stockErr.Available
		body.Available = &available
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		body.Error = "internal error"
	}
	c.JSON(status, body)
}

func mapErrorToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Error: msg})
}
