package command

import (
	"errors"
	"testing"
	"time"

	"artify/internal/core/domain"
	"artify/internal/core/domain/style"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyles_ListsShortcuts(t *testing.T) {
	ts := &MockTextSender{}
	cmd := NewStyles(ts, style.Defaults(), "/styles")

	assert.Equal(t, "/styles", cmd.GetCommand())

	err := cmd.Respond(t.Context(), time.Second, &domain.Message{ID: 1, ChatID: 1, Text: "/styles"})
	require.NoError(t, err)
	assert.Equal(t,
		"Available styles:\n/sketch - Outline Sketch\n/cartoon - Cartoon\n/ghibli - Studio Ghibli",
		ts.Message)
}

func TestStyles_SendError(t *testing.T) {
	ts := &MockTextSender{err: errors.New("mock error")}
	cmd := NewStyles(ts, style.Defaults(), "/styles")

	err := cmd.Respond(t.Context(), time.Second, &domain.Message{ID: 1, ChatID: 1})
	require.EqualError(t, err, "error sending style list: mock error")
}
