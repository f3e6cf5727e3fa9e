package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrArgList(t *testing.T) {
	assert.Equal(t, "[]", strArgList())
	assert.Equal(t, "['web', '3']", strArgList("web", 3))
}

func TestQueryErrorWraps(t *testing.T) {
	errDB := errors.New("connection reset")

	err := newQueryError("SELECT 1", errDB, 1)
	assert.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "SELECT 1")
}
