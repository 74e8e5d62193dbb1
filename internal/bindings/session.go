package bindings

import (
	"context"

	"github.com/google/uuid"

	"github.com/conneroisu/appshell/internal/logging"
)

// Dispatcher routes events to the bindings listening on their source.
type Dispatcher struct {
	bindings []Binding
}

// NewDispatcher creates a dispatcher over a fixed set of bindings.
func NewDispatcher(bindings ...Binding) *Dispatcher {
	return &Dispatcher{bindings: bindings}
}

// Dispatch runs every binding whose input matches the event source and
// returns their updates in declaration order. Initial events skip bindings
// that prevent initial invocation. The first handler error aborts the
// dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) ([]Update, error) {
	var updates []Update

	for _, binding := range d.bindings {
		if binding.Input != event.Source {
			continue
		}
		if event.Initial && binding.PreventInitial {
			continue
		}

		value, err := binding.Handle(ctx, event.Value)
		if err != nil {
			return updates, err
		}
		updates = append(updates, Update{Target: binding.Output, Value: value})
	}

	return updates, nil
}

// Emitter receives the updates and errors a session produces.
type Emitter interface {
	Emit(ctx context.Context, update Update) error
	EmitError(ctx context.Context, err error) error
}

// Session is the event loop of one connected browser tab. Events are
// handled one at a time, each to completion before the next.
type Session struct {
	ID         string
	drawer     *Drawer
	dispatcher *Dispatcher
	logger     logging.Logger
}

// NewSession creates a session with the shell's two bindings.
func NewSession(source SnapshotSource, logger logging.Logger) *Session {
	drawer := NewDrawer()
	id := uuid.NewString()

	return &Session{
		ID:         id,
		drawer:     drawer,
		dispatcher: NewDispatcher(TitleSync(source), SidebarToggle(drawer)),
		logger:     logger.With("session_id", id),
	}
}

// Drawer exposes the session's drawer state.
func (s *Session) Drawer() *Drawer {
	return s.drawer
}

// Handle processes a single event and emits its updates.
func (s *Session) Handle(ctx context.Context, event Event, out Emitter) error {
	updates, err := s.dispatcher.Dispatch(ctx, event)
	for _, update := range updates {
		if emitErr := out.Emit(ctx, update); emitErr != nil {
			return emitErr
		}
	}

	if err != nil {
		s.logger.Warn(ctx, err, "Binding rejected event", "source", event.Source.String())
		return out.EmitError(ctx, err)
	}

	s.logger.Debug(ctx, "Event handled", "source", event.Source.String(), "updates", len(updates))

	return nil
}

// Run consumes events until the channel closes or ctx is cancelled.
// Emitter failures end the loop; handler errors are reported to the
// emitter and the loop continues.
func (s *Session) Run(ctx context.Context, events <-chan Event, out Emitter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Handle(ctx, event, out); err != nil {
				return err
			}
		}
	}
}
