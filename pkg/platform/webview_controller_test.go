package platform

import (
	"errors"
	"reflect"
	"testing"

	shellerrors "github.com/livego/shell/pkg/errors"
)

func TestWebViewController_Lifecycle(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	if c.ViewID() == 0 {
		t.Fatal("expected non-zero ViewID")
	}
	creates := bridge.callsTo(platformViewsChannel, "create")
	if len(creates) != 1 || creates[0].args["viewType"] != "native_webview" {
		t.Fatalf("create calls = %v", creates)
	}

	c.Dispose()
	c.Dispose()

	if c.ViewID() != 0 {
		t.Error("expected zero ViewID after Dispose")
	}
	if n := len(bridge.callsTo(platformViewsChannel, "dispose")); n != 1 {
		t.Errorf("dispose calls = %d, want 1", n)
	}
}

func TestWebViewController_CreateFailure(t *testing.T) {
	bridge := setupTestBridge(t)
	bridge.respond = func(channel, method string, args map[string]any) (any, error) {
		if method == "create" {
			return nil, errors.New("no webview provider")
		}
		return nil, nil
	}
	var reported []*shellerrors.ShellError
	captureReports(t, &reported)

	c := NewWebViewController()
	if c.ViewID() != 0 {
		t.Error("expected zero ViewID when native create fails")
	}
	if err := c.Load("https://example.com"); err != ErrDisposed {
		t.Errorf("Load: got %v, want ErrDisposed", err)
	}
	if len(reported) != 1 {
		t.Errorf("reported %d errors, want 1", len(reported))
	}
}

func TestWebViewController_Load(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	if err := c.Load("https://example.com"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	loads := bridge.viewCalls("load")
	if len(loads) != 1 || loads[0].args["url"] != "https://example.com" {
		t.Errorf("load calls = %v", loads)
	}
	if id, _ := toInt64(loads[0].args["viewId"]); id != c.ViewID() {
		t.Errorf("load viewId = %v, want %d", loads[0].args["viewId"], c.ViewID())
	}
}

func TestWebViewController_GoBack(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	if err := c.GoBack(); err != nil {
		t.Errorf("GoBack: %v", err)
	}
	if len(bridge.viewCalls("goBack")) != 1 {
		t.Error("expected one goBack call")
	}
}

func TestWebViewController_CanGoBack(t *testing.T) {
	tests := []struct {
		name     string
		response any
		want     bool
		wantErr  bool
	}{
		{name: "bare true", response: true, want: true},
		{name: "bare false", response: false, want: false},
		{name: "map", response: map[string]any{"canGoBack": true}, want: true},
		{name: "nil", response: nil, wantErr: true},
		{name: "wrong type", response: map[string]any{"canGoBack": "yes"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := setupTestBridge(t)
			c := NewWebViewController()
			defer c.Dispose()

			bridge.respond = func(channel, method string, args map[string]any) (any, error) {
				if args["method"] == "canGoBack" {
					return tt.response, nil
				}
				return nil, nil
			}

			got, err := c.CanGoBack()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CanGoBack: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanGoBack = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWebViewController_ApplySettings(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	err := c.ApplySettings(WebViewSettings{
		JavaScriptEnabled:                     true,
		DOMStorageEnabled:                     true,
		AllowFileAccess:                       true,
		JavaScriptCanOpenWindowsAutomatically: true,
		UserAgent:                             "TestAgent/1.0",
	})
	if err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}

	calls := bridge.viewCalls("applySettings")
	if len(calls) != 1 {
		t.Fatalf("applySettings calls = %d, want 1", len(calls))
	}
	args := calls[0].args
	want := map[string]any{
		"javaScriptEnabled":                     true,
		"domStorageEnabled":                     true,
		"mediaPlaybackRequiresUserGesture":      false,
		"allowFileAccess":                       true,
		"javaScriptCanOpenWindowsAutomatically": true,
		"handleNavigationInApp":                 false,
		"userAgent":                             "TestAgent/1.0",
	}
	for k, v := range want {
		if args[k] != v {
			t.Errorf("%s = %v, want %v", k, args[k], v)
		}
	}
}

func TestWebViewSettings_EmptyUserAgentOmitted(t *testing.T) {
	if _, ok := (WebViewSettings{}).toArgs()["userAgent"]; ok {
		t.Error("empty user agent should not be sent")
	}
}

func TestWebViewController_PageCallbacks(t *testing.T) {
	setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	var started, finished, code, message string
	c.OnPageStarted = func(url string) { started = url }
	c.OnPageFinished = func(url string) { finished = url }
	c.OnError = func(cd, msg string) { code, message = cd, msg }

	sendViewEvent(t, "onPageStarted", map[string]any{"viewId": c.ViewID(), "url": "https://example.com"})
	sendViewEvent(t, "onPageFinished", map[string]any{"viewId": c.ViewID(), "url": "https://example.com/page"})
	sendViewEvent(t, "onWebViewError", map[string]any{
		"viewId":  c.ViewID(),
		"code":    ErrCodeNetworkError,
		"message": "net::ERR_NAME_NOT_RESOLVED",
	})

	if started != "https://example.com" {
		t.Errorf("OnPageStarted url = %q", started)
	}
	if finished != "https://example.com/page" {
		t.Errorf("OnPageFinished url = %q", finished)
	}
	if code != ErrCodeNetworkError || message != "net::ERR_NAME_NOT_RESOLVED" {
		t.Errorf("OnError = (%q, %q)", code, message)
	}
}

func TestWebViewController_NilCallbacksDoNotPanic(t *testing.T) {
	setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	sendViewEvent(t, "onPageStarted", map[string]any{"viewId": c.ViewID(), "url": "https://example.com"})
	sendViewEvent(t, "onPageFinished", map[string]any{"viewId": c.ViewID(), "url": "https://example.com"})
	sendViewEvent(t, "onWebViewError", map[string]any{"viewId": c.ViewID(), "code": ErrCodeLoadFailed, "message": "x"})
}

func TestWebViewController_EventsForDisposedViewAreDropped(t *testing.T) {
	setupTestBridge(t)

	c := NewWebViewController()
	id := c.ViewID()
	called := false
	c.OnPageStarted = func(string) { called = true }
	c.Dispose()

	sendViewEvent(t, "onPageStarted", map[string]any{"viewId": id, "url": "https://example.com"})
	if called {
		t.Error("callback fired for a disposed view")
	}
}

func TestWebViewController_MalformedEventReported(t *testing.T) {
	setupTestBridge(t)
	var reported []*shellerrors.ShellError
	captureReports(t, &reported)

	sendViewEvent(t, "onPageStarted", map[string]any{"url": "https://example.com"})

	if len(reported) != 1 || reported[0].Kind != shellerrors.KindParsing {
		t.Errorf("reported = %v, want one parsing error", reported)
	}
}

func TestWebViewController_MethodsReturnErrDisposedAfterDispose(t *testing.T) {
	setupTestBridge(t)

	c := NewWebViewController()
	c.Dispose()

	iface := JavaScriptInterface{Name: "Bridge", Methods: map[string]JavaScriptMethod{"ping": func([]any) {}}}
	for _, tc := range []struct {
		name string
		fn   func() error
	}{
		{"Load", func() error { return c.Load("https://example.com") }},
		{"GoBack", func() error { return c.GoBack() }},
		{"CanGoBack", func() error { _, err := c.CanGoBack(); return err }},
		{"ApplySettings", func() error { return c.ApplySettings(WebViewSettings{}) }},
		{"AddJavaScriptInterface", func() error { return c.AddJavaScriptInterface(iface) }},
		{"SetPermissionHandler", func() error { return c.SetPermissionHandler(nil) }},
	} {
		if err := tc.fn(); err != ErrDisposed {
			t.Errorf("%s after Dispose: got %v, want ErrDisposed", tc.name, err)
		}
	}
}

func TestWebViewController_AddJavaScriptInterface(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	var got []any
	methods := map[string]JavaScriptMethod{
		"showNotification": func(args []any) { got = args },
	}
	if err := c.AddJavaScriptInterface(JavaScriptInterface{Name: "Android", Methods: methods}); err != nil {
		t.Fatalf("AddJavaScriptInterface: %v", err)
	}
	// Widening the caller's map after install must not widen the page's view.
	methods["readFile"] = func([]any) { t.Error("undeclared method reached") }

	calls := bridge.viewCalls("addJavascriptInterface")
	if len(calls) != 1 {
		t.Fatalf("addJavascriptInterface calls = %d, want 1", len(calls))
	}
	if calls[0].args["name"] != "Android" {
		t.Errorf("name = %v", calls[0].args["name"])
	}
	if !reflect.DeepEqual(calls[0].args["methods"], []any{"showNotification"}) {
		t.Errorf("methods = %v, want [showNotification]", calls[0].args["methods"])
	}

	sendViewEvent(t, "onJavascriptCall", map[string]any{
		"viewId":    c.ViewID(),
		"interface": "Android",
		"jsMethod":  "showNotification",
		"args":      []any{"Live", "Stream started"},
	})
	if !reflect.DeepEqual(got, []any{"Live", "Stream started"}) {
		t.Errorf("args = %v", got)
	}

	var reported []*shellerrors.ShellError
	captureReports(t, &reported)
	sendViewEvent(t, "onJavascriptCall", map[string]any{
		"viewId":    c.ViewID(),
		"interface": "Android",
		"jsMethod":  "readFile",
		"args":      []any{"/etc/passwd"},
	})
	if len(reported) != 1 || reported[0].Kind != shellerrors.KindBridge {
		t.Errorf("reported = %v, want one bridge error", reported)
	}
}

func TestWebViewController_JavaScriptPanicRecovered(t *testing.T) {
	setupTestBridge(t)
	var panics []*shellerrors.PanicError
	old := shellerrors.DefaultHandler
	shellerrors.SetHandler(&recordingHandler{panics: &panics})
	t.Cleanup(func() { shellerrors.SetHandler(old) })

	c := NewWebViewController()
	defer c.Dispose()
	c.AddJavaScriptInterface(JavaScriptInterface{
		Name:    "Android",
		Methods: map[string]JavaScriptMethod{"boom": func([]any) { panic("bad") }},
	})

	sendViewEvent(t, "onJavascriptCall", map[string]any{
		"viewId": c.ViewID(), "interface": "Android", "jsMethod": "boom",
	})
	if len(panics) != 1 {
		t.Errorf("recovered %d panics, want 1", len(panics))
	}
}

func TestJavaScriptInterfaceValidation(t *testing.T) {
	noop := func([]any) {}
	tests := []struct {
		name  string
		iface JavaScriptInterface
		ok    bool
	}{
		{"valid", JavaScriptInterface{Name: "Android", Methods: map[string]JavaScriptMethod{"showNotification": noop}}, true},
		{"dollar and underscore", JavaScriptInterface{Name: "$_app2", Methods: map[string]JavaScriptMethod{"_x": noop}}, true},
		{"empty name", JavaScriptInterface{Methods: map[string]JavaScriptMethod{"x": noop}}, false},
		{"leading digit", JavaScriptInterface{Name: "1app", Methods: map[string]JavaScriptMethod{"x": noop}}, false},
		{"dotted name", JavaScriptInterface{Name: "window.app", Methods: map[string]JavaScriptMethod{"x": noop}}, false},
		{"no methods", JavaScriptInterface{Name: "Android"}, false},
		{"nil handler", JavaScriptInterface{Name: "Android", Methods: map[string]JavaScriptMethod{"x": nil}}, false},
		{"bad method name", JavaScriptInterface{Name: "Android", Methods: map[string]JavaScriptMethod{"a-b": noop}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.iface.validate()
			if tt.ok && err != nil {
				t.Errorf("validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("validate: got %v, want ErrInvalidArguments", err)
			}
		})
	}
}

func TestWebViewController_PermissionRequest(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	var got *WebPermissionRequest
	if err := c.SetPermissionHandler(func(req *WebPermissionRequest) { got = req }); err != nil {
		t.Fatalf("SetPermissionHandler: %v", err)
	}
	enable := bridge.viewCalls("setPermissionRequestsEnabled")
	if len(enable) != 1 || enable[0].args["enabled"] != true {
		t.Fatalf("setPermissionRequestsEnabled calls = %v", enable)
	}

	sendViewEvent(t, "onPermissionRequest", map[string]any{
		"viewId":    c.ViewID(),
		"requestId": 7,
		"origin":    "https://example.com",
		"resources": []any{ResourceVideoCapture, ResourceAudioCapture},
	})
	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Origin() != "https://example.com" {
		t.Errorf("Origin = %q", got.Origin())
	}
	if !reflect.DeepEqual(got.Resources(), []string{ResourceVideoCapture, ResourceAudioCapture}) {
		t.Errorf("Resources = %v", got.Resources())
	}

	if err := got.Grant(got.Resources()); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if err := got.Deny(); err != ErrPermissionResolved {
		t.Errorf("second answer: got %v, want ErrPermissionResolved", err)
	}

	resolves := bridge.viewCalls("resolvePermission")
	if len(resolves) != 1 {
		t.Fatalf("resolvePermission calls = %d, want 1", len(resolves))
	}
	args := resolves[0].args
	if args["grant"] != true || args["requestId"] != float64(7) {
		t.Errorf("resolve args = %v", args)
	}
	if !reflect.DeepEqual(args["resources"], []any{ResourceVideoCapture, ResourceAudioCapture}) {
		t.Errorf("granted resources = %v", args["resources"])
	}
}

func TestWebViewController_PermissionRequestWithoutHandlerDenied(t *testing.T) {
	bridge := setupTestBridge(t)

	c := NewWebViewController()
	defer c.Dispose()

	sendViewEvent(t, "onPermissionRequest", map[string]any{
		"viewId":    c.ViewID(),
		"requestId": 1,
		"resources": []any{ResourceVideoCapture},
	})

	resolves := bridge.viewCalls("resolvePermission")
	if len(resolves) != 1 || resolves[0].args["grant"] != false {
		t.Fatalf("resolvePermission calls = %v, want one deny", resolves)
	}
	if !reflect.DeepEqual(resolves[0].args["resources"], []any{}) {
		t.Errorf("denied resources = %v, want []", resolves[0].args["resources"])
	}
}

func TestWebViewController_PermissionRequestMalformedResourcesDenied(t *testing.T) {
	bridge := setupTestBridge(t)
	var reported []*shellerrors.ShellError
	captureReports(t, &reported)

	c := NewWebViewController()
	defer c.Dispose()

	called := false
	c.SetPermissionHandler(func(req *WebPermissionRequest) {
		called = true
		req.Grant(req.Resources())
	})

	sendViewEvent(t, "onPermissionRequest", map[string]any{
		"viewId":    c.ViewID(),
		"requestId": 4,
		"resources": []any{ResourceVideoCapture, 7, ResourceAudioCapture},
	})

	if called {
		t.Error("handler saw a request with unreadable resources")
	}
	resolves := bridge.viewCalls("resolvePermission")
	if len(resolves) != 1 || resolves[0].args["grant"] != false {
		t.Fatalf("resolvePermission calls = %v, want one deny", resolves)
	}
	if len(reported) != 1 || reported[0].Kind != shellerrors.KindParsing {
		t.Errorf("reported = %v, want one parsing error", reported)
	}
}

func TestParseStringSlice(t *testing.T) {
	tests := []struct {
		in   any
		want []string
		ok   bool
	}{
		{nil, nil, true},
		{[]any{}, []string{}, true},
		{[]any{"a", "b"}, []string{"a", "b"}, true},
		{[]string{"a"}, []string{"a"}, true},
		{[]any{"a", 1}, nil, false},
		{[]any{"a", nil}, nil, false},
		{"a", nil, false},
	}
	for _, tt := range tests {
		got, ok := parseStringSlice(tt.in)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseStringSlice(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsMediaCaptureResource(t *testing.T) {
	for _, r := range []string{ResourceAudioCapture, ResourceVideoCapture, ResourceAudioCaptureShort, ResourceVideoCaptureShort} {
		if !IsMediaCaptureResource(r) {
			t.Errorf("IsMediaCaptureResource(%q) = false", r)
		}
	}
	for _, r := range []string{ResourceGeolocation, ResourceMIDISysex, ResourceProtectedMediaID, ""} {
		if IsMediaCaptureResource(r) {
			t.Errorf("IsMediaCaptureResource(%q) = true", r)
		}
	}
}

// captureReports routes reported ShellErrors into dst for the test's duration.
func captureReports(t *testing.T, dst *[]*shellerrors.ShellError) {
	t.Helper()
	old := shellerrors.DefaultHandler
	shellerrors.SetHandler(&recordingHandler{errs: dst})
	t.Cleanup(func() { shellerrors.SetHandler(old) })
}

type recordingHandler struct {
	errs   *[]*shellerrors.ShellError
	panics *[]*shellerrors.PanicError
}

func (h *recordingHandler) HandleError(err *shellerrors.ShellError) {
	if h.errs != nil {
		*h.errs = append(*h.errs, err)
	}
}

func (h *recordingHandler) HandlePanic(err *shellerrors.PanicError) {
	if h.panics != nil {
		*h.panics = append(*h.panics, err)
	}
}
