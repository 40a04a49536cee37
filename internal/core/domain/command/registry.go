package command

import (
	"errors"
	"sort"
	"strings"

	"artify/internal/core/port"

	"github.com/rs/zerolog/log"
)

var (
	ErrRegistryNotInitialized = errors.New("can't fetch command, registry not initialized")
	ErrCommandNotFound        = errors.New("command not found")
)

type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[strings.ToLower(handler.GetCommand())] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		return nil, ErrRegistryNotInitialized
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, ErrCommandNotFound
	}

	return handler, nil
}

// ListCommands returns the registered commands in alphabetical order.
func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func ParseCommandArgs(args string) string {
	command := strings.Fields(args)
	if len(command) == 0 {
		return ""
	}
	return strings.Join(command[1:], " ")
}

// ParseCommand returns the lowercased command word, without a trailing
// @botname as Telegram appends in group chats.
func ParseCommand(args string) string {
	command := strings.Fields(args)
	if len(command) == 0 {
		return ""
	}

	cmd, _, _ := strings.Cut(command[0], "@")
	return strings.ToLower(cmd)
}
