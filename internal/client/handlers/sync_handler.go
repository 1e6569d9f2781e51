package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmirror/taskmirror/internal/mirror"
)

// SyncHandler triggers mirror passes on demand.
type SyncHandler struct {
	mgr *mirror.Manager
}

func NewSyncHandler(mgr *mirror.Manager) *SyncHandler {
	return &SyncHandler{mgr: mgr}
}

// Now runs a pass synchronously and returns its results. If a pass is
// already in flight the request is rejected, not queued.
func (h *SyncHandler) Now(ctx *gin.Context) {
	run, results, err := h.mgr.RunPass(ctx.Request.Context(), mirror.TriggerManual)
	if err != nil {
		if errors.Is(err, mirror.ErrPassRunning) {
			AbortWithError(ctx, http.StatusConflict, ErrCodePassInProgress, err)
			return
		}
		AbortWithError(ctx, http.StatusBadGateway, ErrCodePassFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &SyncNowResponse{
		Code:    CodeOk,
		Run:     run,
		Results: results,
	})
}
