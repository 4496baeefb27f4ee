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

func TestAccountSecretUpsertDefaultsTokenType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO connected_account_secrets`)).
		WithArgs(int64(7), "long-lived", "bearer", "scope-a scope-b", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAccountSecretRepository(db)
	err = repo.Upsert(context.Background(), 7, model.TokenBundle{
		AccessToken: "long-lived",
		Scopes:      "scope-a scope-b",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountSecretGetNotConnected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT account_id, access_token, token_type, scopes, expires_at, created_at, updated_at`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "access_token", "token_type", "scopes", "expires_at", "created_at", "updated_at"}))

	repo := NewAccountSecretRepository(db)
	_, err = repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrNotConnected)
}

func TestAccountSecretGetWithExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	exp := now.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT account_id, access_token, token_type, scopes, expires_at, created_at, updated_at`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "access_token", "token_type", "scopes", "expires_at", "created_at", "updated_at"}).
			AddRow(7, "tok", "page", "scopes", exp, now, now))

	repo := NewAccountSecretRepository(db)
	sec, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "tok", sec.AccessToken)
	require.NotNil(t, sec.ExpiresAt)
	assert.WithinDuration(t, exp, *sec.ExpiresAt, time.Second)
}
