package handlers

import "github.com/taskmirror/taskmirror/internal/mirror"

// SyncNowResponse is returned by POST /v1/sync/now after the pass finishes.
type SyncNowResponse struct {
	Code    string              `json:"code"`
	Run     *mirror.PassRun     `json:"run"`
	Results []mirror.SyncResult `json:"results"`
}
