package platform

import (
	"fmt"
	"sync"

	"github.com/livego/shell/pkg/errors"
)

// WebViewController provides control over a native browser view.
// The controller creates its platform view eagerly, so methods and callbacks
// work immediately after construction:
//
//	web := platform.NewWebViewController()
//	web.OnPageFinished = func(url string) { ... }
//	web.ApplySettings(platform.WebViewSettings{JavaScriptEnabled: true})
//	web.Load("https://example.com")
//
// Set callback fields before calling [WebViewController.Load] to ensure
// no events are missed.
//
// All methods are safe for concurrent use.
type WebViewController struct {
	mu     sync.RWMutex
	view   *nativeWebView // guarded by mu
	viewID int64          // guarded by mu

	// OnPageStarted is called when a page starts loading.
	// Called on the UI thread.
	OnPageStarted func(url string)

	// OnPageFinished is called when a page finishes loading.
	// Called on the UI thread.
	OnPageFinished func(url string)

	// OnError is called when a loading error occurs.
	// The code parameter is one of [ErrCodeNetworkError], [ErrCodeSSLError],
	// or [ErrCodeLoadFailed]. Called on the UI thread.
	OnError func(code, message string)
}

// NewWebViewController creates a new web view controller. If the native view
// cannot be created the failure is reported and every method returns
// ErrDisposed.
func NewWebViewController() *WebViewController {
	c := &WebViewController{}

	view, err := GetPlatformViewRegistry().Create(webViewType, map[string]any{})
	if err != nil {
		errors.Report(&errors.ShellError{
			Op:   "platform.NewWebViewController",
			Kind: errors.KindPlatform,
			Err:  fmt.Errorf("failed to create webview: %w", err),
		})
		return c
	}

	webView, ok := view.(*nativeWebView)
	if !ok {
		errors.Report(&errors.ShellError{
			Op:   "platform.NewWebViewController",
			Kind: errors.KindPlatform,
			Err:  fmt.Errorf("unexpected view type: %T", view),
		})
		return c
	}

	c.view = webView
	c.viewID = webView.ViewID()

	webView.mu.Lock()
	webView.onPageStarted = func(url string) {
		if c.OnPageStarted != nil {
			c.OnPageStarted(url)
		}
	}
	webView.onPageFinished = func(url string) {
		if c.OnPageFinished != nil {
			c.OnPageFinished(url)
		}
	}
	webView.onError = func(code, message string) {
		if c.OnError != nil {
			c.OnError(code, message)
		}
	}
	webView.mu.Unlock()

	return c
}

// ViewID returns the platform view ID, or 0 if the view was not created or
// has been disposed.
func (c *WebViewController) ViewID() int64 {
	c.mu.RLock()
	id := c.viewID
	c.mu.RUnlock()
	return id
}

func (c *WebViewController) current() (*nativeWebView, int64, error) {
	c.mu.RLock()
	view, id := c.view, c.viewID
	c.mu.RUnlock()
	if id == 0 {
		return nil, 0, ErrDisposed
	}
	return view, id, nil
}

func (c *WebViewController) invoke(method string, args map[string]any) (any, error) {
	_, id, err := c.current()
	if err != nil {
		return nil, err
	}
	return GetPlatformViewRegistry().InvokeViewMethod(id, method, args)
}

// ApplySettings configures the view's capabilities.
func (c *WebViewController) ApplySettings(settings WebViewSettings) error {
	_, err := c.invoke("applySettings", settings.toArgs())
	return err
}

// AddJavaScriptInterface injects iface into page script as window.<Name>.
// The interface is copied; later changes to iface.Methods have no effect.
// Installing an interface under an existing name replaces it.
//
// Native delivers page calls as onJavascriptCall view events of the form
// {"viewId", "method": "onJavascriptCall", "interface", "jsMethod", "args"}.
func (c *WebViewController) AddJavaScriptInterface(iface JavaScriptInterface) error {
	if err := iface.validate(); err != nil {
		return err
	}
	view, id, err := c.current()
	if err != nil {
		return err
	}
	iface = iface.clone()
	view.setInterface(iface)
	_, err = GetPlatformViewRegistry().InvokeViewMethod(id, "addJavascriptInterface", map[string]any{
		"name":    iface.Name,
		"methods": iface.MethodNames(),
	})
	return err
}

// SetPermissionHandler routes page permission requests (camera, microphone,
// MIDI, protected media) to h. The handler is called on the browser engine's
// thread, not the UI thread, and must answer each request exactly once.
// A nil handler restores native default handling.
func (c *WebViewController) SetPermissionHandler(h func(req *WebPermissionRequest)) error {
	view, id, err := c.current()
	if err != nil {
		return err
	}
	view.setPermissionHandler(h)
	_, err = GetPlatformViewRegistry().InvokeViewMethod(id, "setPermissionRequestsEnabled", map[string]any{
		"enabled": h != nil,
	})
	return err
}

// Load loads the specified URL.
func (c *WebViewController) Load(url string) error {
	_, err := c.invoke("load", map[string]any{"url": url})
	return err
}

// CanGoBack reports whether the view has a history entry to go back to.
func (c *WebViewController) CanGoBack() (bool, error) {
	result, err := c.invoke("canGoBack", nil)
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	case map[string]any:
		if b, ok := v["canGoBack"].(bool); ok {
			return b, nil
		}
	}
	return false, fmt.Errorf("webview: unexpected response from canGoBack: %v", result)
}

// GoBack navigates back in history.
func (c *WebViewController) GoBack() error {
	_, err := c.invoke("goBack", nil)
	return err
}

// Dispose releases the web view and its native resources. After disposal,
// this controller must not be reused. Dispose is idempotent.
func (c *WebViewController) Dispose() {
	c.mu.Lock()
	id := c.viewID
	c.view = nil
	c.viewID = 0
	c.mu.Unlock()
	if id != 0 {
		GetPlatformViewRegistry().Dispose(id)
	}
}
