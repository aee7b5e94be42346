package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
)

// EntityHandler serves the mirrored collections. Every read here is a
// synchronous in-memory lookup; nothing on this path ever fetches remotely.
type EntityHandler struct {
	mirror *mirror.Mirror
}

func NewEntityHandler(m *mirror.Mirror) *EntityHandler {
	return &EntityHandler{mirror: m}
}

type entityListResponse struct {
	Kind  domain.EntityKind `json:"kind"`
	Count int               `json:"count"`
	Data  []domain.Record   `json:"data"`
}

// List returns the mirrored collection for a kind, optionally narrowed by
// the kind's filter facet.
//
// @Summary      List mirrored records
// @Tags         entities
// @Produce      json
// @Param        kind    path      string  true   "Entity kind"  Enums(unit, franchisee, billing, staff, communication)
// @Param        filter  query     string  false  "Status for units and billing, role for franchisees and staff, channel for communications"
// @Success      200     {object}  entityListResponse
// @Failure      400     {object}  map[string]string
// @Router       /v1/entities/{kind} [get]
// @Security     BearerAuth
func (h *EntityHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	kind, err := domain.ParseEntityKind(c.Param("kind"))
	if err != nil {
		return err
	}

	var records []domain.Record
	if filter := c.QueryParam("filter"); filter != "" {
		records, err = h.mirror.Query(kind, func(r domain.Record) bool {
			return recordFacet(r) == filter
		})
	} else {
		records, err = h.mirror.Records(kind)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entityListResponse{
		Kind:  kind,
		Count: len(records),
		Data:  records,
	})
}

// recordFacet returns the value the list filter matches against: lifecycle
// status for units and billing, role for franchisees and staff, channel for
// communication logs.
func recordFacet(r domain.Record) string {
	switch rec := r.(type) {
	case domain.Unit:
		return string(rec.Status)
	case domain.BillingRecord:
		return string(rec.Status)
	case domain.Franchisee:
		return string(rec.Role)
	case domain.InternalUser:
		return string(rec.Role)
	case domain.CommunicationLog:
		return rec.Channel
	}
	return ""
}

// Stats returns the derived aggregate for a kind.
//
// @Summary      Collection statistics
// @Tags         entities
// @Produce      json
// @Param        kind  path      string  true  "Entity kind"  Enums(unit, franchisee, billing, staff, communication)
// @Success      200   {object}  object
// @Failure      400   {object}  map[string]string
// @Router       /v1/entities/{kind}/stats [get]
// @Security     BearerAuth
func (h *EntityHandler) Stats(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	kind, err := domain.ParseEntityKind(c.Param("kind"))
	if err != nil {
		return err
	}
	stats, err := h.mirror.Stats(kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
