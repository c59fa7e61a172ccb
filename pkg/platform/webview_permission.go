package platform

import (
	"fmt"
	"sync/atomic"
)

// Resource identifiers carried by web permission requests. Android reports
// the android.webkit values; the iOS embedder reports the short forms.
const (
	ResourceAudioCapture     = "android.webkit.resource.AUDIO_CAPTURE"
	ResourceVideoCapture     = "android.webkit.resource.VIDEO_CAPTURE"
	ResourceProtectedMediaID = "android.webkit.resource.PROTECTED_MEDIA_ID"
	ResourceMIDISysex        = "android.webkit.resource.MIDI_SYSEX"

	ResourceAudioCaptureShort = "audio_capture"
	ResourceVideoCaptureShort = "video_capture"
	ResourceGeolocation       = "geolocation"
)

// IsMediaCaptureResource reports whether resource names microphone or camera
// capture on either platform.
func IsMediaCaptureResource(resource string) bool {
	switch resource {
	case ResourceAudioCapture, ResourceVideoCapture,
		ResourceAudioCaptureShort, ResourceVideoCaptureShort:
		return true
	default:
		return false
	}
}

// WebPermissionRequest is a pending request from page content for hardware
// access (getUserMedia and friends). It must be answered exactly once, with
// Grant or Deny, from the UI thread.
type WebPermissionRequest struct {
	viewID    int64
	requestID int64
	origin    string
	resources []string
	resolved  atomic.Bool
}

// ErrPermissionResolved is returned when answering a request twice.
var ErrPermissionResolved = fmt.Errorf("platform: permission request already resolved")

// Origin returns the origin of the requesting page.
func (r *WebPermissionRequest) Origin() string {
	return r.origin
}

// Resources returns a copy of the requested resource identifiers.
func (r *WebPermissionRequest) Resources() []string {
	return append([]string(nil), r.resources...)
}

// Grant grants the given resources.
func (r *WebPermissionRequest) Grant(resources []string) error {
	return r.resolve(true, resources)
}

// Deny denies the whole request.
func (r *WebPermissionRequest) Deny() error {
	return r.resolve(false, nil)
}

func (r *WebPermissionRequest) resolve(grant bool, resources []string) error {
	if !r.resolved.CompareAndSwap(false, true) {
		return ErrPermissionResolved
	}
	if resources == nil {
		resources = []string{}
	}
	_, err := GetPlatformViewRegistry().InvokeViewMethod(r.viewID, "resolvePermission", map[string]any{
		"requestId": r.requestID,
		"grant":     grant,
		"resources": resources,
	})
	return err
}

// parseWebPermissionRequest reads a permission event. ok is false when the
// event has no request ID. A request whose resources are not all strings is
// returned with malformed set so it can be refused rather than granted in part.
func parseWebPermissionRequest(viewID int64, args map[string]any) (req *WebPermissionRequest, malformed, ok bool) {
	requestID, ok := toInt64(args["requestId"])
	if !ok {
		return nil, false, false
	}
	resources, valid := parseStringSlice(args["resources"])
	return &WebPermissionRequest{
		viewID:    viewID,
		requestID: requestID,
		origin:    parseString(args["origin"]),
		resources: resources,
	}, !valid, true
}
