package command

import (
	"context"
	"testing"
	"time"

	"artify/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResponder struct {
	command string
}

func (m *MockResponder) Respond(_ context.Context, _ time.Duration, _ *domain.Message) error {
	return nil
}

func (m *MockResponder) GetCommand() string {
	return m.command
}

func TestRegister(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)
}

func TestGetNotRegistered(t *testing.T) {
	cr := &Registry{}

	_, err := cr.Get("test")
	require.ErrorIs(t, err, ErrRegistryNotInitialized)
}

func TestGetCommandNotFound(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)

	_, err := cr.Get("/foo")
	require.ErrorIs(t, err, ErrCommandNotFound)
}

func TestGetCommandFound(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)

	cmd, err := cr.Get("/test")
	require.NoError(t, err)
	assert.NotNil(t, cmd)

	assert.Equal(t, "/test", cmd.GetCommand())
}

func TestListServices(t *testing.T) {
	cr := &Registry{}
	mr1 := &MockResponder{command: "/foo"}
	mr2 := &MockResponder{command: "/bar"}

	cr.Register(mr1)
	cr.Register(mr2)
	assert.Len(t, cr.commands, 2)

	list := cr.ListCommands()

	assert.Equal(t, []string{"/bar", "/foo"}, list)
}

func TestParseCommandArgs(t *testing.T) {
	type TestCase struct {
		description string
		args        string
		want        string
	}

	testCases := []TestCase{
		{
			description: "should discard first word",
			args:        "/style cartoon",
			want:        "cartoon",
		},
		{
			description: "should only discard first word",
			args:        "/style studio  ghibli",
			want:        "studio ghibli",
		},
		{
			description: "empty on no args",
			args:        "/style",
			want:        "",
		},
		{
			description: "empty on no input",
			args:        "",
			want:        "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := ParseCommandArgs(testCase.args)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseCommand(t *testing.T) {
	type TestCase struct {
		description string
		args        string
		want        string
	}

	testCases := []TestCase{
		{
			description: "should return first word",
			args:        "/style",
			want:        "/style",
		},
		{
			description: "should discard following word",
			args:        "/style cartoon",
			want:        "/style",
		},
		{
			description: "should discard following words",
			args:        "/style cartoon please",
			want:        "/style",
		},
		{
			description: "should strip bot name and lowercase",
			args:        "/Style@ArtifyBot cartoon",
			want:        "/style",
		},
		{
			description: "empty on no input",
			args:        "",
			want:        "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := ParseCommand(testCase.args)

			assert.Equal(t, testCase.want, got)
		})
	}
}
