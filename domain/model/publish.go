package model

import (
	"fmt"
	"time"
)

// PublishTarget names one connected account a post should go to.
type PublishTarget struct {
	AccountID int64    `json:"account_id"`
	Platform  Platform `json:"platform"`
}

// PublishRequest is one logical content-distribution operation across a set
// of connected accounts.
type PublishRequest struct {
	PostType  PostType        `json:"post_type"`
	Caption   string          `json:"caption"`
	MediaURLs []string        `json:"media_urls"`
	Targets   []PublishTarget `json:"targets"`
}

// Validate checks the request shape once, before any fan-out. Shape errors
// reject the whole request; they are never per-target outcomes.
func (r PublishRequest) Validate() error {
	switch r.PostType {
	case PostTypeImage, PostTypeVideo:
		if len(r.MediaURLs) != 1 {
			return fmt.Errorf("%w: %s post requires exactly 1 media url, got %d", ErrInvalidRequest, r.PostType, len(r.MediaURLs))
		}
	case PostTypeCarousel:
		if len(r.MediaURLs) < 1 || len(r.MediaURLs) > 10 {
			return fmt.Errorf("%w: carousel requires 1-10 media urls, got %d", ErrInvalidRequest, len(r.MediaURLs))
		}
	case PostTypeText:
		if len(r.MediaURLs) != 0 {
			return fmt.Errorf("%w: text post must not carry media urls", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown post_type %q", ErrInvalidRequest, r.PostType)
	}
	if len(r.Targets) == 0 {
		return fmt.Errorf("%w: at least one target required", ErrInvalidRequest)
	}
	return nil
}

// DedupTargets collapses duplicate account ids, keeping first occurrence order.
func (r PublishRequest) DedupTargets() []PublishTarget {
	seen := make(map[int64]struct{}, len(r.Targets))
	out := make([]PublishTarget, 0, len(r.Targets))
	for _, t := range r.Targets {
		if _, ok := seen[t.AccountID]; ok {
			continue
		}
		seen[t.AccountID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ProviderResult is the opaque success payload from a platform publish.
type ProviderResult struct {
	PostID  string `json:"post_id,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// PublishResult is the outcome for exactly one target. Every target of a
// request yields exactly one result, including on total provider outage.
type PublishResult struct {
	AccountID      int64           `json:"account_id"`
	Platform       Platform        `json:"platform"`
	OK             bool            `json:"ok"`
	ProviderResult *ProviderResult `json:"provider_result,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// PublishResponse pairs the full result vector with its logical AND.
type PublishResponse struct {
	OK      bool            `json:"ok"`
	Results []PublishResult `json:"results"`
}

// PublishLog is one persisted per-target outcome row, written on success and
// on failure alike.
type PublishLog struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	AccountID    int64     `json:"account_id"`
	Platform     Platform  `json:"platform"`
	PostType     PostType  `json:"post_type"`
	Caption      string    `json:"caption"`
	OK           bool      `json:"ok"`
	ExternalRef  *string   `json:"external_ref,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Scheduled post status values.
const (
	ScheduledStatusPending   = "pending"
	ScheduledStatusRunning   = "running"
	ScheduledStatusPublished = "published"
	ScheduledStatusFailed    = "failed"
	ScheduledStatusCancelled = "cancelled"
)

// ScheduledPost is a publish request parked until its scheduled time.
type ScheduledPost struct {
	ID          int64           `json:"id"`
	TenantID    string          `json:"tenant_id"`
	PostType    PostType        `json:"post_type"`
	Caption     string          `json:"caption"`
	MediaURLs   []string        `json:"media_urls"`
	Targets     []PublishTarget `json:"targets"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Request reconstructs the publish request stored in a scheduled post.
func (s ScheduledPost) Request() PublishRequest {
	return PublishRequest{
		PostType:  s.PostType,
		Caption:   s.Caption,
		MediaURLs: s.MediaURLs,
		Targets:   s.Targets,
	}
}
