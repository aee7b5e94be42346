package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/franqnet/console-sync/internal/api/metrics"
	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/service"
)

// BoardHandler serves the billing kanban and its optimistic move operation.
type BoardHandler struct {
	board *service.BoardService
}

func NewBoardHandler(board *service.BoardService) *BoardHandler {
	return &BoardHandler{board: board}
}

type boardResponse struct {
	Columns []service.BoardColumn `json:"columns"`
}

type moveRequest struct {
	RecordID string `json:"record_id" validate:"required"`
	Column   string `json:"column" validate:"required,oneof=pending open overdue negotiated legal"`
	Position int    `json:"position" validate:"gte=0"`
}

// Board returns the kanban layout in display-column order.
//
// @Summary      Billing board
// @Tags         board
// @Produce      json
// @Success      200  {object}  boardResponse
// @Router       /v1/board [get]
// @Security     BearerAuth
func (h *BoardHandler) Board(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boardResponse{Columns: h.board.Board()})
}

// Move applies an optimistic card move and confirms it against the billing
// system. A rejected move is rolled back before the error is returned.
//
// @Summary      Move a billing card
// @Tags         board
// @Accept       json
// @Produce      json
// @Param        body  body      moveRequest  true  "Move details"
// @Success      200   {object}  boardResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/board/move [post]
// @Security     BearerAuth
func (h *BoardHandler) Move(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	column, ok := domain.ParseBoardColumn(req.Column)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid column")
	}

	if err := h.board.Move(c.Request().Context(), req.RecordID, column, req.Position); err != nil {
		metrics.BoardMovesTotal.WithLabelValues("rolled_back").Inc()
		return err
	}
	metrics.BoardMovesTotal.WithLabelValues("confirmed").Inc()

	return c.JSON(http.StatusOK, boardResponse{Columns: h.board.Board()})
}
