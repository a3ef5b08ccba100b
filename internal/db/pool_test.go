package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_BadConnString(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: parse config")
}

func TestPool_MockSatisfiesInterface(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var p Pool = mock
	mock.ExpectExec(`SELECT 1`).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	_, err = p.Exec(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
