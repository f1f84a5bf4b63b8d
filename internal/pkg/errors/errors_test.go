package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrapPreservesIdentity(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ErrStoreUnavailable.Wrap(cause)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
}

func TestAppError_WrapDoesNotMutateSentinel(t *testing.T) {
	_ = ErrRunLockHeld.Wrap(errors.New("held by sync"))
	assert.Nil(t, errors.Unwrap(ErrRunLockHeld))
}

func TestAppError_WithDetails(t *testing.T) {
	err := New("RECORD_MAPPING_DEFECT", "Raw record cannot be mapped").
		WithDetails(map[string]interface{}{"field": "_id"})

	assert.ErrorIs(t, err, ErrRecordMappingDefect)
	assert.Equal(t, "_id", err.Details["field"])
}
