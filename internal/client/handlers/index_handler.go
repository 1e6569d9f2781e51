package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmirror/taskmirror/internal/mirror"
)

// IndexHandler exposes the persisted task index.
type IndexHandler struct {
	store mirror.Store
}

func NewIndexHandler(store mirror.Store) *IndexHandler {
	return &IndexHandler{store: store}
}

// Get returns the current task index as persisted on disk.
func (h *IndexHandler) Get(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, h.store.Load())
}
