package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrID(t *testing.T) {
	assert.NoError(t, StrID("web-frontend"))
	assert.NoError(t, StrID("a b"))
	assert.Error(t, StrID(" web"))
	assert.Error(t, StrID("web\t"))
	assert.Error(t, StrID("we\x00b"))
	assert.Error(t, StrID("web\u00a0"))
	assert.Error(t, StrID("\u3000web"))
	assert.NoError(t, StrID(""))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("linux", "=,/"))
	assert.ErrorContains(t, Name("", "=,/"), "empty")
	assert.ErrorContains(t, Name("os=linux", "=,/"), "'='")
	assert.ErrorContains(t, Name("a/b", "=,/"), "'/'")
	assert.Error(t, Name("linux ", "=,/"))
	assert.Error(t, Name(".", "=,/"))
	assert.Error(t, Name("..", "=,/"))
	assert.NoError(t, Name("..web", "=,/"))
}
