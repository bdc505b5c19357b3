package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorSurfacesBackendMessage(t *testing.T) {
	raw := errors.New(`duplicate key value violates unique constraint "usuarios_nome_key"`)

	de := ToDomainError(raw)

	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, raw.Error(), de.Message, "backend error text survives verbatim")
	assert.ErrorIs(t, de, raw)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("pendência encerrada", nil)

	de := ToDomainError(fmt.Errorf("saving: %w", original))

	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, "pendência encerrada", de.Message)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(fmt.Errorf("loading: %w", pgx.ErrNoRows))

	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}
