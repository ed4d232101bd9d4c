package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tgienger/quill/internal/models"
)

func TestKindOf(t *testing.T) {
	verr := &models.ValidationError{Field: "title", Message: "is required"}

	assert.Equal(t, ErrValidation, KindOf(Invalid(EntityTask, OpCreate, verr)))
	assert.Equal(t, ErrValidation, KindOf(fmt.Errorf("form: %w", verr)))
	assert.Equal(t, ErrNotFound, KindOf(NotFound(EntityTask, OpUpdate, "42")))
	assert.Equal(t, ErrLoad, KindOf(Wrap(ErrLoad, EntityProject, OpGetAll, "", errors.New("dial tcp: refused"))))
	assert.Equal(t, ErrPersist, KindOf(errors.New("disk full")))
	assert.Nil(t, KindOf(nil))
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrPersist, EntityTask, OpCreate, "", cause)

	assert.True(t, errors.Is(err, ErrPersist))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "task create: persist failed: connection reset", err.Error())
}

func TestWrapKeepsExistingStoreError(t *testing.T) {
	inner := NotFound(EntityProject, OpDelete, "7")
	assert.Same(t, inner, Wrap(ErrPersist, EntityProject, OpDelete, "7", inner))
	assert.Nil(t, Wrap(ErrPersist, EntityProject, OpDelete, "7", nil))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "title is required",
		Message(Invalid(EntityTask, OpCreate, &models.ValidationError{Field: "title", Message: "is required"})))
	assert.Equal(t, "task no longer exists", Message(NotFound(EntityTask, OpUpdate, "1")))
	assert.Equal(t, "failed to load projects", Message(Wrap(ErrLoad, EntityProject, OpGetAll, "", errors.New("x"))))
	assert.Equal(t, "failed to delete template", Message(Wrap(ErrPersist, EntityTemplate, OpDelete, "1", errors.New("x"))))
}

func TestNextStampAdvances(t *testing.T) {
	prev := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, NextStamp(prev, prev).After(prev))
	assert.True(t, NextStamp(prev, prev.Add(-time.Hour)).After(prev))
	later := prev.Add(time.Second)
	assert.Equal(t, later, NextStamp(prev, later))
}
