package usecases

import (
	"fmt"
	"strings"
)

// Command binds a name (and its aliases) to a handler. ExpectedArgs of -1
// means variadic/unchecked.
type Command struct {
	Name         string
	Aliases      []string
	ExpectedArgs int
	Handler      func(args []string) error
}

// CommandRegistry dispatches named commands case-insensitively.
type CommandRegistry struct {
	byName map[string]*Command
	order  []string
}

// NewCommandRegistry returns an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{byName: make(map[string]*Command)}
}

// Register adds a command under its name and every alias. Later
// registrations win, matching a user overriding a built-in.
func (r *CommandRegistry) Register(cmd Command) {
	c := cmd
	r.byName[strings.ToUpper(c.Name)] = &c
	for _, a := range c.Aliases {
		r.byName[strings.ToUpper(a)] = &c
	}
	r.order = append(r.order, strings.ToUpper(c.Name))
}

// Names returns the registered command names in registration order.
func (r *CommandRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch looks up name (or alias) and runs its handler. Unknown names
// and arity mismatches are recoverable user errors, returned as plain
// errors for the surface to print.
func (r *CommandRegistry) Dispatch(name string, args []string) error {
	cmd, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if cmd.ExpectedArgs >= 0 && len(args) != cmd.ExpectedArgs {
		return fmt.Errorf("%s expects %d argument(s), got %d", cmd.Name, cmd.ExpectedArgs, len(args))
	}
	return cmd.Handler(args)
}
