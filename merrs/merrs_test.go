package merrs_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wecisecode/datastructures/merrs"
)

func TestEntityErrors(t *testing.T) {
	err := merrs.NewEntityNotFound("User", 42)
	fmt.Println(err)
	assert.True(t, merrs.EntityNotFoundError.Contains(err))
	assert.True(t, merrs.NotExistError.Contains(err))
	assert.False(t, merrs.ErrValid.Contains(err))
	assert.Equal(t, `Entity "User" with id (42) not found.`, merrs.MError(err).Message())
	v, ok := merrs.InformValue(err, "class")
	assert.True(t, ok)
	assert.Equal(t, "User", v)

	err = merrs.NewIdentifiersNotMatch("User", 1, 2, "uid")
	assert.True(t, merrs.IdentifiersNotMatchError.Contains(err))
	assert.True(t, merrs.ErrValid.Contains(err))
	assert.Equal(t, `Entity "User" with uid (1) not matched with dataset uid (2).`, merrs.MError(err).Message())
	v, _ = merrs.InformValue(err, "dataset id")
	assert.Equal(t, "2", v)

	err = merrs.NewIncompleteDataset("User", "a1")
	assert.True(t, merrs.IncompleteDatasetError.Contains(err))
	assert.False(t, merrs.IdentifiersNotMatchError.Contains(err))
	assert.Equal(t, `Entity "User" (id: a1) accept only complete dataset, partial/empty dataset given.`, merrs.MError(err).Message())
}

func TestErrorsIs(t *testing.T) {
	err := merrs.NewEntityNotFound("Page", 7, "slug")
	assert.True(t, errors.Is(err, merrs.EntityNotFoundError))
	assert.True(t, errors.Is(err, merrs.NotExistError))
	assert.False(t, errors.Is(err, merrs.IncompleteDatasetError))

	wrapped := fmt.Errorf("loading page: %w", err)
	assert.True(t, errors.Is(wrapped, merrs.EntityNotFoundError))
}

func TestCause(t *testing.T) {
	inner := merrs.NewIncompleteDataset("User", 3)
	outer := merrs.ErrProgram.New("import failed", inner)
	assert.True(t, merrs.ErrProgram.Contains(outer))
	assert.True(t, merrs.IncompleteDatasetError.Contains(outer))
	v, ok := merrs.InformValue(outer, "id")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, "Program", merrs.ErrorType(outer))
}

func TestNewFormat(t *testing.T) {
	err := merrs.ErrJson.New("bad token %q at %d", "x", 5, merrs.SSMap{"source": "test"})
	me := merrs.MError(err)
	assert.Equal(t, `bad token "x" at 5`, me.Message())
	assert.True(t, merrs.ErrFormat.Contains(err))
	assert.True(t, strings.HasPrefix(err.Error(), `[Json]: bad token "x" at 5`))
	assert.Contains(t, err.Error(), "source:")
	assert.True(t, merrs.ErrJson.Is(merrs.ErrFormat))
	assert.Equal(t, merrs.ErrFormat, merrs.ErrJson.Parent())
}

func TestPlainError(t *testing.T) {
	assert.False(t, merrs.NotExistError.Contains(errors.New("plain")))
	assert.False(t, merrs.NotExistError.Contains(nil))
	_, ok := merrs.InformValue(errors.New("plain"), "id")
	assert.False(t, ok)
}
