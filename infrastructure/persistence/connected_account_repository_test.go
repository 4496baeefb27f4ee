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

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "platform", "external_account_id",
		"display_name", "avatar_url", "status", "created_at", "updated_at",
	})
}

func TestConnectedAccountUpsertReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO connected_accounts`)).
		WithArgs("tenant-1", "facebook", "page-1", "My Page", "https://avatar", "active", sqlmock.AnyArg()).
		WillReturnRows(accountRows().
			AddRow(7, "tenant-1", "facebook", "page-1", "My Page", "https://avatar", "active", now, now))

	repo := NewConnectedAccountRepository(db)
	account, err := repo.Upsert(context.Background(), &model.ConnectedAccount{
		TenantID:          "tenant-1",
		Platform:          model.PlatformFacebook,
		ExternalAccountID: "page-1",
		DisplayName:       "My Page",
		AvatarURL:         "https://avatar",
		Status:            model.AccountStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "My Page", account.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectedAccountUpsertDefaultsStatusActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO connected_accounts`)).
		WithArgs("tenant-1", "facebook", "page-1", "My Page", "", "active", sqlmock.AnyArg()).
		WillReturnRows(accountRows().
			AddRow(7, "tenant-1", "facebook", "page-1", "My Page", "", "active", now, now))

	repo := NewConnectedAccountRepository(db)
	_, err = repo.Upsert(context.Background(), &model.ConnectedAccount{
		TenantID:          "tenant-1",
		Platform:          model.PlatformFacebook,
		ExternalAccountID: "page-1",
		DisplayName:       "My Page",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectedAccountListFiltersByPlatform(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, tenant_id, platform, external_account_id, display_name, avatar_url, status, created_at, updated_at FROM connected_accounts WHERE tenant_id=$1 AND platform=$2`)).
		WithArgs("tenant-1", "instagram").
		WillReturnRows(accountRows().
			AddRow(1, "tenant-1", "instagram", "ig-1", "Brand", "", "active", now, now))

	repo := NewConnectedAccountRepository(db)
	list, err := repo.List(context.Background(), "tenant-1", model.PlatformInstagram)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.PlatformInstagram, list[0].Platform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectedAccountGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(int64(99)).
		WillReturnRows(accountRows())

	repo := NewConnectedAccountRepository(db)
	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrNotConnected)
}

func TestConnectedAccountSetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE connected_accounts SET status=$1, updated_at=$2 WHERE id=$3`)).
		WithArgs("revoked", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewConnectedAccountRepository(db)
	err = repo.SetStatus(context.Background(), 7, model.AccountStatusRevoked)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
