package usecases

import (
	"errors"
	"testing"
)

func TestCommandRegistry_CaseInsensitiveDispatch(t *testing.T) {
	r := NewCommandRegistry()
	calls := 0
	r.Register(Command{
		Name:         "LINE",
		Aliases:      []string{"L"},
		ExpectedArgs: 0,
		Handler:      func(args []string) error { calls++; return nil },
	})

	for _, name := range []string{"LINE", "line", "Line", "l", "L"} {
		if err := r.Dispatch(name, nil); err != nil {
			t.Errorf("dispatch %q: %v", name, err)
		}
	}
	if calls != 5 {
		t.Errorf("expected 5 handler calls, got %d", calls)
	}
}

func TestCommandRegistry_UnknownCommand(t *testing.T) {
	r := NewCommandRegistry()
	if err := r.Dispatch("NOPE", nil); err == nil {
		t.Error("unknown command should error")
	}
}

func TestCommandRegistry_ArityCheck(t *testing.T) {
	r := NewCommandRegistry()
	r.Register(Command{
		Name:         "PAN",
		ExpectedArgs: 2,
		Handler:      func(args []string) error { return nil },
	})

	if err := r.Dispatch("PAN", []string{"1"}); err == nil {
		t.Error("wrong arity should be rejected before the handler runs")
	}
	if err := r.Dispatch("PAN", []string{"1", "2"}); err != nil {
		t.Errorf("correct arity rejected: %v", err)
	}
}

func TestCommandRegistry_VariadicUnchecked(t *testing.T) {
	r := NewCommandRegistry()
	var got []string
	r.Register(Command{
		Name:         "SKETCH",
		ExpectedArgs: -1,
		Handler:      func(args []string) error { got = args; return nil },
	})

	if err := r.Dispatch("SKETCH", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("variadic dispatch failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("handler should receive all args, got %v", got)
	}
}

func TestCommandRegistry_HandlerErrorPropagates(t *testing.T) {
	r := NewCommandRegistry()
	boom := errors.New("boom")
	r.Register(Command{Name: "X", ExpectedArgs: 0, Handler: func([]string) error { return boom }})

	if err := r.Dispatch("x", nil); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
}
