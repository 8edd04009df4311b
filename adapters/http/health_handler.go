package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps   map[string]Pinger
	logger logger.Logger
}

// NewHealthHandler takes the dependencies readiness depends on, by name.
func NewHealthHandler(deps map[string]Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{deps: deps, logger: log}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(gin.H, len(names))
	var down []string
	var errs []error
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			checks[name] = "DOWN"
			down = append(down, name)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		checks[name] = "UP"
	}

	if len(down) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "checks": checks})
		return
	}

	appErr := apperror.NewUnavailable(strings.Join(down, ", ")+" unreachable", errors.Join(errs...))
	h.logger.Warn("Readiness check failed", zap.String("details", appErr.Details), zap.Error(appErr.Err))
	body := appErr.ToJSON()
	body["status"] = "DOWN"
	body["checks"] = checks
	c.JSON(apperror.ToHTTPStatus(appErr), body)
}
