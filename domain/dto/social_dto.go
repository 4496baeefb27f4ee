package dto

import "github.com/vallemarketing/valle360-social/domain/model"

// PublishRequest is the publish endpoint payload. scheduled_at, when set,
// parks the request instead of running it immediately.
type PublishRequest struct {
	PostType    string                `json:"post_type" binding:"required"`
	Caption     string                `json:"caption"`
	MediaURLs   []string              `json:"media_urls"`
	Targets     []model.PublishTarget `json:"targets" binding:"required"`
	ScheduledAt string                `json:"scheduled_at,omitempty"`
}

// Res is the generic response envelope for status-only endpoints.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}
