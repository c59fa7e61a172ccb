package platform

// WebViewSettings configures the capabilities of a browser view. The browser
// view owns its session state (cookies, DOM storage, cache); these flags only
// govern what it allows.
type WebViewSettings struct {
	// JavaScriptEnabled allows page scripts to run.
	JavaScriptEnabled bool
	// DOMStorageEnabled enables localStorage and sessionStorage.
	DOMStorageEnabled bool
	// MediaPlaybackRequiresUserGesture blocks audio/video autoplay until the
	// user interacts with the page.
	MediaPlaybackRequiresUserGesture bool
	// AllowFileAccess lets the page reach file:// content (uploads, cache).
	AllowFileAccess bool
	// JavaScriptCanOpenWindowsAutomatically lets window.open run without a
	// user gesture (popup-based sign-in flows).
	JavaScriptCanOpenWindowsAutomatically bool
	// UserAgent overrides the browser's user-agent string. Empty keeps the
	// engine default.
	UserAgent string
	// HandleNavigationInApp keeps link navigation inside the view instead of
	// handing URLs to the system browser.
	HandleNavigationInApp bool
}

func (s WebViewSettings) toArgs() map[string]any {
	args := map[string]any{
		"javaScriptEnabled":                     s.JavaScriptEnabled,
		"domStorageEnabled":                     s.DOMStorageEnabled,
		"mediaPlaybackRequiresUserGesture":      s.MediaPlaybackRequiresUserGesture,
		"allowFileAccess":                       s.AllowFileAccess,
		"javaScriptCanOpenWindowsAutomatically": s.JavaScriptCanOpenWindowsAutomatically,
		"handleNavigationInApp":                 s.HandleNavigationInApp,
	}
	if s.UserAgent != "" {
		args["userAgent"] = s.UserAgent
	}
	return args
}
