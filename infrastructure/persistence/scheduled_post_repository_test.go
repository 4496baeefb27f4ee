package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-social/domain/model"
)

func scheduledRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "post_type", "caption", "media_urls", "targets",
		"scheduled_at", "status", "created_at", "updated_at",
	})
}

func TestScheduledPostCreateSerializesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	at := now.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scheduled_posts`)).
		WithArgs("tenant-1", "carousel", "soon", `["a.jpg","b.mp4"]`, `[{"account_id":1,"platform":"instagram"}]`,
			sqlmock.AnyArg(), "pending", sqlmock.AnyArg()).
		WillReturnRows(scheduledRows().
			AddRow(5, "tenant-1", "carousel", "soon", `["a.jpg","b.mp4"]`, `[{"account_id":1,"platform":"instagram"}]`, at, "pending", now, now))

	repo := NewScheduledPostRepository(db)
	post, err := repo.Create(context.Background(), &model.ScheduledPost{
		TenantID:    "tenant-1",
		PostType:    model.PostTypeCarousel,
		Caption:     "soon",
		MediaURLs:   []string{"a.jpg", "b.mp4"},
		Targets:     []model.PublishTarget{{AccountID: 1, Platform: model.PlatformInstagram}},
		ScheduledAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), post.ID)
	assert.Equal(t, model.ScheduledStatusPending, post.Status)
	assert.Equal(t, []string{"a.jpg", "b.mp4"}, post.MediaURLs)
	require.Len(t, post.Targets, 1)
	assert.Equal(t, int64(1), post.Targets[0].AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostCancelOnlyPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_posts SET status=$1, updated_at=$2 WHERE id=$3 AND tenant_id=$4 AND status=$5`)).
		WithArgs("cancelled", sqlmock.AnyArg(), int64(5), "tenant-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewScheduledPostRepository(db)
	cancelled, err := repo.Cancel(context.Background(), "tenant-1", 5)
	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostClaimDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE scheduled_posts SET status=$1, updated_at=$2`)).
		WithArgs("running", sqlmock.AnyArg(), "pending", 10).
		WillReturnRows(scheduledRows().
			AddRow(5, "tenant-1", "text", "due", `[]`, `[{"account_id":1,"platform":"facebook"}]`, now.Add(-time.Minute), "running", now, now))

	repo := NewScheduledPostRepository(db)
	posts, err := repo.ClaimDue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, model.ScheduledStatusRunning, posts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
