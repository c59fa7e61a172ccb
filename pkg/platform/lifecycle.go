package platform

import (
	"sync"

	"github.com/livego/shell/pkg/errors"
)

const lifecycleEventsChannel = "drift/lifecycle/events"

// LifecycleState represents the host activity's lifecycle state.
type LifecycleState string

const (
	// LifecycleStateResumed indicates the app is visible and responding to user input.
	LifecycleStateResumed LifecycleState = "resumed"

	// LifecycleStateInactive indicates the app is transitioning (e.g., receiving a phone call).
	LifecycleStateInactive LifecycleState = "inactive"

	// LifecycleStatePaused indicates the app is not visible but still running.
	LifecycleStatePaused LifecycleState = "paused"

	// LifecycleStateDetached indicates the host activity was destroyed.
	LifecycleStateDetached LifecycleState = "detached"
)

// LifecycleHandler is called when lifecycle state changes.
type LifecycleHandler func(state LifecycleState)

// LifecycleService tracks the host activity's lifecycle. Native reports
// changes either as a didChangeState call or on the event stream.
type LifecycleService struct {
	channel *MethodChannel
	events  *EventChannel

	mu       sync.RWMutex
	state    LifecycleState
	handlers map[int]LifecycleHandler
	nextID   int
}

// Lifecycle is the singleton lifecycle service.
var Lifecycle = newLifecycleService()

func newLifecycleService() *LifecycleService {
	l := &LifecycleService{
		channel:  NewMethodChannel("drift/lifecycle"),
		events:   NewEventChannel(lifecycleEventsChannel),
		state:    LifecycleStateResumed,
		handlers: make(map[int]LifecycleHandler),
	}
	l.channel.SetHandler(l.handleMethodCall)
	return l
}

func init() {
	registerBuiltinInit(func() {
		Lifecycle.events.Listen(EventHandler{
			OnEvent: func(data any) {
				state, ok := parseLifecycleState(data)
				if !ok {
					reportLifecycleParseError(data)
					return
				}
				Lifecycle.updateState(state)
			},
			OnError: func(err error) {
				errors.Report(&errors.ShellError{
					Op:      "platform.lifecycle.streamError",
					Kind:    errors.KindPlatform,
					Channel: lifecycleEventsChannel,
					Err:     err,
				})
			},
		})
	})
}

func (l *LifecycleService) handleMethodCall(method string, args any) (any, error) {
	if method != "didChangeState" {
		return nil, ErrMethodNotFound
	}
	state, ok := parseLifecycleState(args)
	if !ok {
		reportLifecycleParseError(args)
		return nil, ErrInvalidArguments
	}
	l.updateState(state)
	return nil, nil
}

func parseLifecycleState(data any) (LifecycleState, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	state := parseString(m["state"])
	switch LifecycleState(state) {
	case LifecycleStateResumed, LifecycleStateInactive, LifecycleStatePaused, LifecycleStateDetached:
		return LifecycleState(state), true
	}
	return "", false
}

func reportLifecycleParseError(data any) {
	errors.Report(&errors.ShellError{
		Op:      "platform.lifecycle.parseEvent",
		Kind:    errors.KindParsing,
		Channel: lifecycleEventsChannel,
		Err: &errors.ParseError{
			Channel:  lifecycleEventsChannel,
			DataType: "LifecycleState",
			Got:      data,
		},
	})
}

// State returns the current lifecycle state.
func (l *LifecycleService) State() LifecycleState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// AddHandler registers a handler to be called on lifecycle changes.
// Returns a function that removes the handler.
func (l *LifecycleService) AddHandler(handler LifecycleHandler) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.handlers[id] = handler
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}
}

// updateState records newState and notifies handlers. Repeated states are
// not reported.
func (l *LifecycleService) updateState(newState LifecycleState) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := make([]LifecycleHandler, 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.Unlock()

	for _, h := range handlers {
		h(newState)
	}
}

func (l *LifecycleService) reset() {
	l.mu.Lock()
	l.state = LifecycleStateResumed
	l.handlers = make(map[int]LifecycleHandler)
	l.mu.Unlock()
}
