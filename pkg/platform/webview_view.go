package platform

import (
	"fmt"
	"sync"

	"github.com/livego/shell/pkg/errors"
)

const webViewType = "native_webview"

type nativeWebViewFactory struct{}

func (nativeWebViewFactory) ViewType() string {
	return webViewType
}

func (nativeWebViewFactory) Create(viewID int64, params map[string]any) (PlatformView, error) {
	return &nativeWebView{
		basePlatformView: basePlatformView{
			viewID:   viewID,
			viewType: webViewType,
		},
		interfaces: make(map[string]JavaScriptInterface),
	}, nil
}

type nativeWebView struct {
	basePlatformView

	mu                sync.RWMutex
	onPageStarted     func(url string)
	onPageFinished    func(url string)
	onError           func(code, message string)
	permissionHandler func(req *WebPermissionRequest)
	interfaces        map[string]JavaScriptInterface
}

func (v *nativeWebView) Create(params map[string]any) error {
	return nil
}

func (v *nativeWebView) Dispose() {
	v.mu.Lock()
	v.onPageStarted = nil
	v.onPageFinished = nil
	v.onError = nil
	v.permissionHandler = nil
	v.interfaces = make(map[string]JavaScriptInterface)
	v.mu.Unlock()
}

func (v *nativeWebView) setInterface(iface JavaScriptInterface) {
	v.mu.Lock()
	v.interfaces[iface.Name] = iface
	v.mu.Unlock()
}

func (v *nativeWebView) setPermissionHandler(h func(req *WebPermissionRequest)) {
	v.mu.Lock()
	v.permissionHandler = h
	v.mu.Unlock()
}

func (v *nativeWebView) handleViewEvent(method string, args map[string]any) {
	switch method {
	case "onPageStarted":
		v.mu.RLock()
		cb := v.onPageStarted
		v.mu.RUnlock()
		if cb != nil {
			url := parseString(args["url"])
			Dispatch(func() { cb(url) })
		}

	case "onPageFinished":
		v.mu.RLock()
		cb := v.onPageFinished
		v.mu.RUnlock()
		if cb != nil {
			url := parseString(args["url"])
			Dispatch(func() { cb(url) })
		}

	case "onWebViewError":
		v.mu.RLock()
		cb := v.onError
		v.mu.RUnlock()
		if cb != nil {
			code, message := parseString(args["code"]), parseString(args["message"])
			Dispatch(func() { cb(code, message) })
		}

	case "onPermissionRequest":
		v.handlePermissionRequest(args)

	case "onJavascriptCall":
		v.handleJavaScriptCall(args)
	}
}

// handlePermissionRequest runs on whatever thread native delivered the event
// from. Handlers answer on the UI thread themselves. Without a handler, or
// when the resource list cannot be read in full, the request is denied.
func (v *nativeWebView) handlePermissionRequest(args map[string]any) {
	req, malformed, ok := parseWebPermissionRequest(v.viewID, args)
	if !ok || malformed {
		errors.Report(&errors.ShellError{
			Op:      "platform.webview.permissionRequest",
			Kind:    errors.KindParsing,
			Channel: platformViewsChannel,
			Err: &errors.ParseError{
				Channel:  platformViewsChannel,
				DataType: "WebPermissionRequest",
				Got:      args,
			},
		})
		if !ok {
			return
		}
	}

	v.mu.RLock()
	h := v.permissionHandler
	v.mu.RUnlock()
	if h == nil || malformed {
		if err := req.Deny(); err != nil {
			errors.Report(&errors.ShellError{
				Op:      "platform.webview.permissionRequest",
				Kind:    errors.KindPlatform,
				Channel: platformViewsChannel,
				Err:     err,
			})
		}
		return
	}
	h(req)
}

// handleJavaScriptCall runs a page-to-native call on the browser engine's
// bridge thread. Native sends {interface, jsMethod, args}; "method" is taken
// by the view event name. Calls naming an interface or method that was never
// declared are rejected.
func (v *nativeWebView) handleJavaScriptCall(args map[string]any) {
	name := parseString(args["interface"])
	method := parseString(args["jsMethod"])

	v.mu.RLock()
	iface, ok := v.interfaces[name]
	v.mu.RUnlock()
	var fn JavaScriptMethod
	if ok {
		fn = iface.Methods[method]
	}
	if fn == nil {
		errors.Report(&errors.ShellError{
			Op:      "platform.webview.javascriptCall",
			Kind:    errors.KindBridge,
			Channel: platformViewsChannel,
			Err:     fmt.Errorf("%w: %s.%s", ErrMethodNotFound, name, method),
		})
		return
	}

	defer errors.Recover("platform.webview.javascriptCall")
	fn(parseArgs(args["args"]))
}

func init() {
	GetPlatformViewRegistry().RegisterFactory(nativeWebViewFactory{})
}
