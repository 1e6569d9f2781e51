package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskmirror/taskmirror/internal/history"
	"github.com/taskmirror/taskmirror/internal/mirror"
)

const defaultHistoryLimit = 20

// HistoryHandler serves recorded pass runs.
type HistoryHandler struct {
	journal *history.Journal
}

func NewHistoryHandler(journal *history.Journal) *HistoryHandler {
	return &HistoryHandler{journal: journal}
}

// Recent returns the most recent pass runs, newest first.
func (h *HistoryHandler) Recent(ctx *gin.Context) {
	limit := defaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			AbortWithError(ctx, http.StatusBadRequest, ErrCodeBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	runs, err := h.journal.Recent(ctx.Request.Context(), limit)
	if err != nil {
		AbortWithError(ctx, http.StatusInternalServerError, ErrCodeUnknownError, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &HistoryResponse{
		Code: CodeOk,
		Runs: runs,
	})
}

// HistoryResponse wraps the recorded pass runs.
type HistoryResponse struct {
	Code string           `json:"code"`
	Runs []mirror.PassRun `json:"runs"`
}
