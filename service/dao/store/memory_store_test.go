package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/clasp/service/dao"
)

type entity struct {
	ID    string
	Value int
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	aStore := NewMemoryStore[string, entity](func(e *entity) string { return e.ID })

	assert.ErrorIs(t, aStore.Save(ctx, nil), dao.ErrNilEntity)

	first := &entity{ID: "1", Value: 10}
	assert.NoError(t, aStore.Save(ctx, first))
	assert.NoError(t, aStore.Save(ctx, &entity{ID: "2", Value: 20}))

	loaded, err := aStore.Load(ctx, "1")
	assert.NoError(t, err)
	assert.Same(t, first, loaded)

	missing, err := aStore.Load(ctx, "3")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	all, err := aStore.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	// Saving the same key overwrites.
	assert.NoError(t, aStore.Save(ctx, &entity{ID: "1", Value: 11}))
	loaded, err = aStore.Load(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, 11, loaded.Value)

	assert.NoError(t, aStore.Delete(ctx, "1"))
	loaded, err = aStore.Load(ctx, "1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
