// Package input replays actions through mouse and keyboard injection.
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"multimodal-gamer/action"
)

// Driver is the OS input surface the executor needs.
type Driver interface {
	Move(x, y int)
	Click()
	KeyTap(key string) error
	KeyDown(key string) error
	KeyUp(key string) error
	Type(text string)
}

// RobotDriver injects input with robotgo.
type RobotDriver struct{}

func (RobotDriver) Move(x, y int) { robotgo.Move(x, y) }

func (RobotDriver) Click() { robotgo.Click("left", false) }

func (RobotDriver) KeyTap(key string) error { return robotgo.KeyTap(key) }

func (RobotDriver) KeyDown(key string) error { return robotgo.KeyToggle(key, "down") }

func (RobotDriver) KeyUp(key string) error { return robotgo.KeyToggle(key, "up") }

func (RobotDriver) Type(text string) { robotgo.TypeStr(text) }

// Executor replays a batch of actions in order.
type Executor struct {
	Driver Driver
	// DryRun logs actions without injecting input.
	DryRun bool
	// Pause is waited between actions so the game can react.
	Pause time.Duration

	log zerolog.Logger
}

// NewExecutor returns an Executor backed by robotgo.
func NewExecutor(dryRun bool) *Executor {
	return &Executor{
		Driver: RobotDriver{},
		DryRun: dryRun,
		Pause:  300 * time.Millisecond,
		log:    log.With().Str("module", "input").Logger(),
	}
}

// Execute replays actions, stopping at the first failure.
func (e *Executor) Execute(ctx context.Context, actions []action.Action) error {
	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && e.Pause > 0 {
			if err := sleep(ctx, e.Pause); err != nil {
				return err
			}
		}
		if err := e.execute(ctx, i, a); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) execute(ctx context.Context, i int, a action.Action) error {
	if err := check(i, a); err != nil {
		return err
	}
	e.log.Info().Bool("dry_run", e.DryRun).Stringer("action", a).Msg("executing")
	if e.DryRun {
		return nil
	}

	switch a.Operation {
	case action.KindClick:
		e.Driver.Move(*a.X, *a.Y)
		e.Driver.Click()
		return nil
	case action.KindWrite:
		e.Driver.Type(a.Text)
		return nil
	case action.KindPress:
		return e.press(ctx, a)
	}
	return &action.UnsupportedOperationError{Index: i, Operation: a.Operation}
}

func check(i int, a action.Action) error {
	switch a.Operation {
	case action.KindClick:
		if !a.Resolved() {
			return fmt.Errorf("click %d %q has no coordinates", i, a.Text)
		}
	case action.KindPress:
		if len(a.Keys) == 0 {
			return fmt.Errorf("press %d has no keys", i)
		}
	case action.KindWrite:
	default:
		return &action.UnsupportedOperationError{Index: i, Operation: a.Operation}
	}
	return nil
}

// press taps each key, or holds all keys together for Duration seconds.
func (e *Executor) press(ctx context.Context, a action.Action) error {
	if a.Duration <= 0 {
		for _, k := range a.Keys {
			if err := e.Driver.KeyTap(k); err != nil {
				return fmt.Errorf("key tap %q: %w", k, err)
			}
		}
		return nil
	}

	var err error
	pressed := make([]string, 0, len(a.Keys))
	for _, k := range a.Keys {
		if err = e.Driver.KeyDown(k); err != nil {
			err = fmt.Errorf("key down %q: %w", k, err)
			break
		}
		pressed = append(pressed, k)
	}
	if err == nil {
		err = sleep(ctx, time.Duration(a.Duration*float64(time.Second)))
	}
	// always release what was pressed
	for j := len(pressed) - 1; j >= 0; j-- {
		if upErr := e.Driver.KeyUp(pressed[j]); upErr != nil && err == nil {
			err = fmt.Errorf("key up %q: %w", pressed[j], upErr)
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
