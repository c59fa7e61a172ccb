package platform

import (
	"sync"
	"sync/atomic"

	"github.com/livego/shell/pkg/errors"
)

const platformViewsChannel = "drift/platform_views"

// PlatformView represents a native view hosted by the shell.
type PlatformView interface {
	// ViewID returns the unique identifier for this view.
	ViewID() int64

	// ViewType returns the type identifier for this view (e.g., "native_webview").
	ViewType() string

	// Create initializes the Go side of the view with the given parameters.
	Create(params map[string]any) error

	// Dispose releases Go-side resources held by the view.
	Dispose()
}

// PlatformViewFactory creates platform views of a specific type.
type PlatformViewFactory interface {
	// Create creates a new platform view instance.
	Create(viewID int64, params map[string]any) (PlatformView, error)

	// ViewType returns the view type this factory creates.
	ViewType() string
}

// viewEventHandler is implemented by views that receive events from native.
type viewEventHandler interface {
	handleViewEvent(method string, args map[string]any)
}

// PlatformViewRegistry manages platform view types and instances.
type PlatformViewRegistry struct {
	factories map[string]PlatformViewFactory
	views     map[int64]PlatformView
	nextID    atomic.Int64
	mu        sync.RWMutex
	channel   *MethodChannel
	events    *EventChannel
}

var (
	platformViewRegistry     *PlatformViewRegistry
	platformViewRegistryOnce sync.Once
)

// GetPlatformViewRegistry returns the global platform view registry.
func GetPlatformViewRegistry() *PlatformViewRegistry {
	platformViewRegistryOnce.Do(func() {
		platformViewRegistry = &PlatformViewRegistry{
			factories: make(map[string]PlatformViewFactory),
			views:     make(map[int64]PlatformView),
			channel:   NewMethodChannel(platformViewsChannel),
			events:    NewEventChannel(platformViewsChannel),
		}
	})
	return platformViewRegistry
}

func init() {
	r := GetPlatformViewRegistry()
	registerBuiltinInit(func() {
		r.events.Listen(EventHandler{
			OnEvent: r.routeEvent,
			OnError: func(err error) {
				errors.Report(&errors.ShellError{
					Op:      "platform.viewEvents",
					Kind:    errors.KindPlatform,
					Channel: platformViewsChannel,
					Err:     err,
				})
			},
		})
	})
}

// RegisterFactory registers a factory for a platform view type.
func (r *PlatformViewRegistry) RegisterFactory(factory PlatformViewFactory) {
	r.mu.Lock()
	r.factories[factory.ViewType()] = factory
	r.mu.Unlock()
}

// Create creates a new platform view of the given type and asks native to
// build its counterpart.
func (r *PlatformViewRegistry) Create(viewType string, params map[string]any) (PlatformView, error) {
	r.mu.RLock()
	factory, ok := r.factories[viewType]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrViewTypeNotFound
	}

	viewID := r.nextID.Add(1)
	view, err := factory.Create(viewID, params)
	if err != nil {
		return nil, err
	}
	if err := view.Create(params); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.views[viewID] = view
	r.mu.Unlock()

	_, err = r.channel.Invoke("create", map[string]any{
		"viewId":   viewID,
		"viewType": viewType,
		"params":   params,
	})
	if err != nil {
		r.mu.Lock()
		delete(r.views, viewID)
		r.mu.Unlock()
		return nil, err
	}
	return view, nil
}

// Dispose destroys a platform view. Unknown IDs are ignored.
func (r *PlatformViewRegistry) Dispose(viewID int64) {
	r.mu.Lock()
	view, ok := r.views[viewID]
	delete(r.views, viewID)
	r.mu.Unlock()
	if !ok {
		return
	}

	view.Dispose()
	if _, err := r.channel.Invoke("dispose", map[string]any{"viewId": viewID}); err != nil {
		errors.Report(&errors.ShellError{
			Op:      "platform.PlatformViewRegistry.Dispose",
			Kind:    errors.KindPlatform,
			Channel: platformViewsChannel,
			Err:     err,
		})
	}
}

// GetView returns a platform view by ID, or nil.
func (r *PlatformViewRegistry) GetView(viewID int64) PlatformView {
	r.mu.RLock()
	view := r.views[viewID]
	r.mu.RUnlock()
	return view
}

// InvokeViewMethod invokes a method on a specific platform view.
func (r *PlatformViewRegistry) InvokeViewMethod(viewID int64, method string, args map[string]any) (any, error) {
	invokeArgs := make(map[string]any, len(args)+2)
	for k, v := range args {
		invokeArgs[k] = v
	}
	invokeArgs["viewId"] = viewID
	invokeArgs["method"] = method
	return r.channel.Invoke("invokeViewMethod", invokeArgs)
}

// routeEvent delivers a native view event to the view it names. Events for
// views that are already disposed are dropped.
func (r *PlatformViewRegistry) routeEvent(data any) {
	m, ok := data.(map[string]any)
	if !ok {
		reportViewParseError(data)
		return
	}
	viewID, ok := toInt64(m["viewId"])
	method := parseString(m["method"])
	if !ok || method == "" {
		reportViewParseError(data)
		return
	}

	if h, ok := r.GetView(viewID).(viewEventHandler); ok {
		h.handleViewEvent(method, m)
	}
}

func reportViewParseError(data any) {
	errors.Report(&errors.ShellError{
		Op:      "platform.viewEvents",
		Kind:    errors.KindParsing,
		Channel: platformViewsChannel,
		Err: &errors.ParseError{
			Channel:  platformViewsChannel,
			DataType: "PlatformViewEvent",
			Got:      data,
		},
	})
}

// basePlatformView provides the identity half of PlatformView.
type basePlatformView struct {
	viewID   int64
	viewType string
}

func (v *basePlatformView) ViewID() int64 {
	return v.viewID
}

func (v *basePlatformView) ViewType() string {
	return v.viewType
}
