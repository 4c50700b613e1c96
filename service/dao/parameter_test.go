package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParameter(t *testing.T) {
	single := NewParameter("action", "transfer")
	assert.Equal(t, "action", single.Name)
	assert.Equal(t, "transfer", single.Value)

	multi := NewParameter("action", "transfer", "spend")
	assert.Equal(t, []string{"transfer", "spend"}, multi.Value)

	none := NewParameter("action")
	assert.Empty(t, none.Value)
}
