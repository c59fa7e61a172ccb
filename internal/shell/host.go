// Package shell hosts the LiveGo web application in a full-screen browser
// view.
package shell

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/livego/shell/internal/bridge"
	"github.com/livego/shell/internal/config"
	"github.com/livego/shell/internal/notify"
	"github.com/livego/shell/pkg/errors"
	"github.com/livego/shell/pkg/platform"
)

// Deps are the host's collaborators.
type Deps struct {
	Logger        *zap.Logger
	Notifications notify.Service
	// OnDetached runs when native reports the host activity destroyed.
	OnDetached func()
}

// Host is the app's single screen.
type Host struct {
	cfg *config.Config
	log *zap.Logger

	channels   *notify.ChannelManager
	bridge     *bridge.ScriptBridge
	policy     *GrantPolicy
	onDetached func()

	mu              sync.Mutex
	web             *platform.WebViewController // guarded by mu
	removeLifecycle func()                      // guarded by mu
}

// New wires a host from cfg. Nothing touches the platform until Start.
func New(cfg *config.Config, deps Deps) *Host {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	service := deps.Notifications
	if service == nil {
		service = platform.Notifications
	}

	channels := notify.NewChannelManager(service, cfg.Channel())
	dispatcher := notify.NewDispatcher(service, channels, cfg.Notifications.Slot)
	return &Host{
		cfg:        cfg,
		log:        log,
		channels:   channels,
		bridge:     bridge.New(dispatcher),
		policy:     NewGrantPolicy(log.Named("permissions")),
		onDetached: deps.OnDetached,
	}
}

// Start brings the screen up: window flags, the browser view and its
// settings, the notification channel, the script bridge, the permission
// policy, then the hosted page. Window styling failures are logged and
// ignored. Any other failure disposes the view and is returned as a
// *errors.ShellError; Start may then be called again.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.web != nil {
		return initError("start", fmt.Errorf("already started"))
	}

	if err := platform.SetKeepScreenOn(true); err != nil {
		h.log.Warn("keep screen on failed", zap.Error(err))
	}
	err := platform.SetSystemUI(platform.SystemUIStyle{
		StatusBarHidden: true,
		Immersive:       true,
		BarsBehavior:    platform.BarsBehaviorTransientBySwipe,
	})
	if err != nil {
		h.log.Warn("immersive mode failed", zap.Error(err))
	}

	web := platform.NewWebViewController()
	web.OnPageStarted = h.pageStarted
	web.OnPageFinished = h.pageFinished
	web.OnError = h.pageError
	if err := web.ApplySettings(h.settings()); err != nil {
		return abortStart(web, "apply settings", err)
	}

	h.channels.Ensure(ctx)

	if err := web.AddJavaScriptInterface(h.bridge.Interface(h.cfg.Shell.BridgeName)); err != nil {
		return abortStart(web, "install script bridge", err)
	}
	if err := web.SetPermissionHandler(h.policy.Handle); err != nil {
		return abortStart(web, "install permission handler", err)
	}
	if err := web.Load(h.cfg.Shell.URL); err != nil {
		return abortStart(web, "load "+h.cfg.Shell.URL, err)
	}

	h.web = web
	platform.BackButton.SetHandler(h.HandleBack)
	h.removeLifecycle = platform.Lifecycle.AddHandler(h.lifecycleChanged)
	h.log.Info("shell started",
		zap.String("url", h.cfg.Shell.URL),
		zap.String("userAgent", h.cfg.UserAgent()),
		zap.Int64("viewId", web.ViewID()))
	return nil
}

func (h *Host) settings() platform.WebViewSettings {
	return platform.WebViewSettings{
		JavaScriptEnabled:                     true,
		DOMStorageEnabled:                     true,
		MediaPlaybackRequiresUserGesture:      false,
		AllowFileAccess:                       true,
		JavaScriptCanOpenWindowsAutomatically: true,
		UserAgent:                             h.cfg.UserAgent(),
		HandleNavigationInApp:                 true,
	}
}

// HandleBack navigates the browser view back one history entry. It returns
// false, leaving the press to the platform, when there is no history or no
// view.
func (h *Host) HandleBack() bool {
	h.mu.Lock()
	web := h.web
	h.mu.Unlock()
	if web == nil {
		return false
	}

	canGoBack, err := web.CanGoBack()
	if err != nil {
		h.log.Warn("canGoBack failed", zap.Error(err))
		return false
	}
	if !canGoBack {
		return false
	}
	if err := web.GoBack(); err != nil {
		h.log.Warn("goBack failed", zap.Error(err))
		return false
	}
	return true
}

// Close releases the browser view. It is safe to call more than once.
func (h *Host) Close() {
	h.mu.Lock()
	web := h.web
	remove := h.removeLifecycle
	h.web = nil
	h.removeLifecycle = nil
	h.mu.Unlock()
	if web == nil {
		return
	}
	if remove != nil {
		remove()
	}
	platform.BackButton.SetHandler(nil)
	web.Dispose()
	h.log.Info("shell closed")
}

func (h *Host) lifecycleChanged(state platform.LifecycleState) {
	h.log.Info("lifecycle", zap.String("state", string(state)))
	if state == platform.LifecycleStateDetached && h.onDetached != nil {
		h.onDetached()
	}
}

func (h *Host) pageStarted(url string) {
	h.log.Debug("page started", zap.String("url", url))
}

func (h *Host) pageFinished(url string) {
	h.log.Info("page finished", zap.String("url", url))
}

func (h *Host) pageError(code, message string) {
	errors.Report(&errors.ShellError{
		Op:   "shell.Host.pageError",
		Kind: errors.KindPlatform,
		Err:  fmt.Errorf("%s: %s", code, message),
	})
}

func abortStart(web *platform.WebViewController, step string, err error) error {
	web.Dispose()
	return initError(step, err)
}

func initError(step string, err error) error {
	return &errors.ShellError{
		Op:   "shell.Host.Start",
		Kind: errors.KindInit,
		Err:  fmt.Errorf("%s: %w", step, err),
	}
}
