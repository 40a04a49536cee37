package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "input format", err: NewInputFormatError("bad", nil), want: KindInputFormat},
		{name: "unknown style", err: NewUnknownStyleError("x", []string{"a"}), want: KindUnknownStyle},
		{name: "model output", err: NewModelOutputError("none"), want: KindModelOutput},
		{name: "decode", err: NewDecodeError(errors.New("eof")), want: KindDecode},
		{name: "wrapped kind", err: fmt.Errorf("outer: %w", NewModelOutputError("none")), want: KindModelOutput},
		{name: "plain error is transport", err: errors.New("connection reset"), want: KindTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("transform: %w", NewUnknownStyleError("nonexistent", []string{"sketch", "cartoon", "ghibli"}))

	assert.ErrorIs(t, err, ErrUnknownStyle)
	assert.NotErrorIs(t, err, ErrModelOutput)
	assert.Equal(t, `transform: style "nonexistent" not found. Available styles: sketch, cartoon, ghibli`, err.Error())
}

func TestDecodeErrorUnwraps(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewDecodeError(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, "failed to decode image: unexpected EOF", err.Error())
}
