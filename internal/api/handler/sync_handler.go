package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/franqnet/console-sync/internal/api/metrics"
	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/ports"
)

const (
	defaultWatchTimeout = 25 * time.Second
	maxWatchTimeout     = 60 * time.Second
)

// SyncHandler exposes the synchronization lifecycle: status, manual
// triggers, cache reset and the long-poll change watch.
type SyncHandler struct {
	controller ports.SyncController
	mirror     *mirror.Mirror
}

func NewSyncHandler(controller ports.SyncController, m *mirror.Mirror) *SyncHandler {
	return &SyncHandler{controller: controller, mirror: m}
}

type syncRequest struct {
	Force bool `json:"force"`
}

type syncRequestResponse struct {
	Started bool              `json:"started"`
	Status  domain.SyncStatus `json:"status"`
}

type watchResponse struct {
	Changed bool              `json:"changed"`
	Notices []mirror.Notice   `json:"notices,omitempty"`
	Status  domain.SyncStatus `json:"status"`
}

// Status returns the current sync state.
//
// @Summary      Sync status
// @Tags         sync
// @Produce      json
// @Success      200  {object}  domain.SyncStatus
// @Router       /v1/sync/status [get]
// @Security     BearerAuth
func (h *SyncHandler) Status(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.controller.Status())
}

// Request asks for a full sync. The response reports whether one actually
// started: requests during a running sync are ignored, and non-forced
// requests on a warm mirror are no-ops.
//
// @Summary      Request a full sync
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        body  body      syncRequest  false  "Sync options"
// @Success      202   {object}  syncRequestResponse
// @Router       /v1/sync [post]
// @Security     BearerAuth
func (h *SyncHandler) Request(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	started := h.controller.RequestSync(c.Request().Context(), req.Force)
	result := "skipped"
	if started {
		result = "started"
	}
	metrics.SyncRunsTotal.WithLabelValues("manual", result).Inc()

	return c.JSON(http.StatusAccepted, syncRequestResponse{
		Started: started,
		Status:  h.controller.Status(),
	})
}

// ClearCache empties the mirror and resets the sync state.
//
// @Summary      Clear the local cache
// @Tags         sync
// @Success      204
// @Router       /v1/sync/cache [delete]
// @Security     BearerAuth
func (h *SyncHandler) ClearCache(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	h.controller.RequestClear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Watch long-polls for mirror changes. It answers as soon as any collection
// changes, or with changed=false once the timeout passes.
//
// @Summary      Watch for changes
// @Tags         sync
// @Produce      json
// @Param        timeout_seconds  query     int  false  "Long-poll timeout (max 60)"
// @Success      200              {object}  watchResponse
// @Router       /v1/sync/watch [get]
// @Security     BearerAuth
func (h *SyncHandler) Watch(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	timeout := defaultWatchTimeout
	if raw := c.QueryParam("timeout_seconds"); raw != "" {
		var secs int
		if err := echo.QueryParamsBinder(c).Int("timeout_seconds", &secs).BindError(); err != nil || secs <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid timeout_seconds")
		}
		timeout = time.Duration(secs) * time.Second
		if timeout > maxWatchTimeout {
			timeout = maxWatchTimeout
		}
	}

	notices, cancel := h.mirror.Subscribe(64)
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.Request().Context().Done():
		return c.Request().Context().Err()
	case <-timer.C:
		return c.JSON(http.StatusOK, watchResponse{Changed: false, Status: h.controller.Status()})
	case first := <-notices:
		collected := []mirror.Notice{first}
		// drain whatever arrived in the same burst
		for {
			select {
			case n := <-notices:
				collected = append(collected, n)
			default:
				return c.JSON(http.StatusOK, watchResponse{
					Changed: true,
					Notices: collected,
					Status:  h.controller.Status(),
				})
			}
		}
	}
}
