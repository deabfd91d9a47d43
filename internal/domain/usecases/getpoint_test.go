package usecases

import (
	"testing"

	"github.com/tsao100/AICAD-sub000/internal/adapters/coordtext"
	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// mockMessenger records surfaced prompts and errors.
type mockMessenger struct {
	prompts []string
	infos   []string
	errors  []string
}

func (m *mockMessenger) Prompt(msg string) { m.prompts = append(m.prompts, msg) }
func (m *mockMessenger) Info(msg string)   { m.infos = append(m.infos, msg) }
func (m *mockMessenger) Error(msg string)  { m.errors = append(m.errors, msg) }

func newTestGetPoint() (*GetPoint, *mockMessenger) {
	msg := &mockMessenger{}
	return NewGetPoint(entities.NewViewport(), coordtext.New(), msg), msg
}

func TestGetPoint_PointerDelivery(t *testing.T) {
	gp, _ := newTestGetPoint()

	var got entities.Vec2
	delivered := false
	gp.Start("first", nil, func(p entities.Vec2) {
		got = p
		delivered = true
	})

	// Identity viewport: screen equals world.
	gp.DeliverPointer(entities.Vec2{X: 2, Y: 3})

	if !delivered {
		t.Fatal("callback not invoked")
	}
	if got != (entities.Vec2{X: 2, Y: 3}) {
		t.Errorf("got %v", got)
	}
	if gp.Active() {
		t.Error("request should be idle after delivery")
	}
}

func TestGetPoint_ChainedRelativeText(t *testing.T) {
	gp, _ := newTestGetPoint()

	var final entities.Vec2
	gp.Start("first", nil, func(a entities.Vec2) {
		prev := a
		gp.Start("second", &prev, func(b entities.Vec2) {
			final = b
		})
	})

	gp.DeliverPointer(entities.Vec2{X: 1, Y: 1})
	if !gp.Active() {
		t.Fatal("chained request should be awaiting a point")
	}
	gp.DeliverText("@3,4")

	if final != (entities.Vec2{X: 4, Y: 5}) {
		t.Errorf("chained @3,4 from (1,1) should give (4,5), got %v", final)
	}
}

func TestGetPoint_DoubleStartRejected(t *testing.T) {
	gp, _ := newTestGetPoint()

	gp.Start("first", nil, func(entities.Vec2) { t.Error("first callback must survive") })
	if ok := gp.Start("second", nil, func(entities.Vec2) {}); ok {
		t.Error("second Start while active must be rejected")
	}
	if gp.Prompt() != "first" {
		t.Errorf("active request clobbered: prompt now %q", gp.Prompt())
	}
	gp.Cancel()
}

func TestGetPoint_ReentrantStartSeesIdleMachine(t *testing.T) {
	gp, _ := newTestGetPoint()

	gp.Start("first", nil, func(entities.Vec2) {
		if gp.Active() {
			t.Error("machine must be idle while the callback runs")
		}
		if !gp.Start("second", nil, func(entities.Vec2) {}) {
			t.Error("chaining Start inside the callback must succeed")
		}
	})
	gp.DeliverPointer(entities.Vec2{})

	if !gp.Active() || gp.Prompt() != "second" {
		t.Errorf("chained request not active; prompt %q", gp.Prompt())
	}
	gp.Cancel()
}

func TestGetPoint_ParseFailureKeepsRequestActive(t *testing.T) {
	gp, msg := newTestGetPoint()

	delivered := false
	gp.Start("point", nil, func(entities.Vec2) { delivered = true })

	gp.DeliverText("not a point")
	if delivered {
		t.Error("bad input must not resolve the request")
	}
	if !gp.Active() {
		t.Error("request must stay active after a parse failure")
	}
	if len(msg.errors) == 0 {
		t.Error("parse failure should surface an error")
	}
	// Re-prompted for retry.
	if len(msg.prompts) < 2 {
		t.Errorf("expected a re-prompt, prompts: %v", msg.prompts)
	}

	gp.DeliverText("1,2")
	if !delivered {
		t.Error("valid retry should resolve")
	}
}

func TestGetPoint_RelativeWithoutPreviousPoint(t *testing.T) {
	gp, msg := newTestGetPoint()

	gp.Start("point", nil, func(entities.Vec2) { t.Error("must not resolve") })
	gp.DeliverText("@3,4")

	if !gp.Active() {
		t.Error("request must survive the invalid relative input")
	}
	if len(msg.errors) != 1 {
		t.Errorf("expected one error, got %v", msg.errors)
	}
	gp.Cancel()
}

func TestGetPoint_CancelDiscardsCallback(t *testing.T) {
	gp, _ := newTestGetPoint()

	cancelled := false
	gp.Start("point", nil, func(entities.Vec2) { t.Error("resolved after cancel") })
	gp.OnCancel(func() { cancelled = true })

	gp.Cancel()
	if !cancelled {
		t.Error("cancel handler should run")
	}
	if gp.Active() {
		t.Error("machine should be idle after cancel")
	}

	// Late input must be ignored.
	gp.DeliverPointer(entities.Vec2{X: 5, Y: 5})
	gp.DeliverText("1,1")
}

func TestGetPoint_DropSkipsCancelHandler(t *testing.T) {
	gp, _ := newTestGetPoint()

	gp.Start("point", nil, func(entities.Vec2) { t.Error("resolved after drop") })
	gp.OnCancel(func() { t.Error("drop must not invoke the cancel handler") })

	gp.Drop()
	if gp.Active() {
		t.Error("machine should be idle after drop")
	}
}

func TestGetPoint_KeyboardModeSuppressesPointer(t *testing.T) {
	gp, _ := newTestGetPoint()

	var got entities.Vec2
	gp.Start("point", nil, func(p entities.Vec2) { got = p })

	gp.SetKeyboardMode(true)
	gp.DeliverPointer(entities.Vec2{X: 9, Y: 9})
	if !gp.Active() {
		t.Fatal("pointer click must not steal a half-typed coordinate")
	}

	gp.DeliverText("1,2")
	if got != (entities.Vec2{X: 1, Y: 2}) {
		t.Errorf("typed entry should win, got %v", got)
	}
	if gp.KeyboardMode() {
		t.Error("keyboard mode should clear once the line is submitted")
	}
}

func TestGetPoint_SnapAppliesToPointer(t *testing.T) {
	msg := &mockMessenger{}
	vp := entities.NewViewport()
	vp.GridSpacing = 1
	vp.SnapEnabled = true
	gp := NewGetPoint(vp, coordtext.New(), msg)

	var got entities.Vec2
	gp.Start("point", nil, func(p entities.Vec2) { got = p })
	gp.DeliverPointer(entities.Vec2{X: 1.4, Y: 2.6})

	if got != (entities.Vec2{X: 1, Y: 3}) {
		t.Errorf("snapped pointer should give (1,3), got %v", got)
	}
}
