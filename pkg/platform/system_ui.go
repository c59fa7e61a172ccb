package platform

// StatusBarStyle indicates the status bar icon color scheme.
type StatusBarStyle string

const (
	StatusBarStyleDefault StatusBarStyle = "default"
	StatusBarStyleLight   StatusBarStyle = "light"
	StatusBarStyleDark    StatusBarStyle = "dark"
)

// SystemBarsBehavior controls how hidden system bars come back.
type SystemBarsBehavior string

const (
	// BarsBehaviorDefault reveals hidden bars on any system gesture and
	// keeps them visible.
	BarsBehaviorDefault SystemBarsBehavior = "default"

	// BarsBehaviorTransientBySwipe reveals hidden bars temporarily on an
	// edge swipe; they hide again on their own.
	BarsBehaviorTransientBySwipe SystemBarsBehavior = "transient_by_swipe"
)

// SystemUIStyle describes system bar and window styling.
type SystemUIStyle struct {
	StatusBarHidden bool
	StatusBarStyle  StatusBarStyle
	// Immersive hides both the status and navigation bars and lets content
	// draw edge to edge. Android only (iOS hides the status bar only).
	Immersive    bool
	BarsBehavior SystemBarsBehavior
}

var systemUIChannel = NewMethodChannel("drift/system_ui")

// SetSystemUI updates the system UI appearance.
func SetSystemUI(style SystemUIStyle) error {
	statusStyle := style.StatusBarStyle
	if statusStyle == "" {
		statusStyle = StatusBarStyleDefault
	}
	behavior := style.BarsBehavior
	if behavior == "" {
		behavior = BarsBehaviorDefault
	}

	_, err := systemUIChannel.Invoke("setStyle", map[string]any{
		"statusBarHidden": style.StatusBarHidden || style.Immersive,
		"statusBarStyle":  string(statusStyle),
		"immersive":       style.Immersive,
		"barsBehavior":    string(behavior),
	})
	return err
}

// SetKeepScreenOn keeps the display powered while the app's window is
// visible, preventing dimming and sleep.
func SetKeepScreenOn(on bool) error {
	_, err := systemUIChannel.Invoke("setKeepScreenOn", map[string]any{"on": on})
	return err
}
