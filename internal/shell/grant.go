package shell

import (
	"go.uber.org/zap"

	"github.com/livego/shell/pkg/errors"
	"github.com/livego/shell/pkg/platform"
)

// Decision is the answer to one page permission request.
type Decision struct {
	Requested []string
	// Granted is either every requested resource or empty.
	Granted []string
}

// Allowed reports whether the request is granted.
func (d Decision) Allowed() bool {
	return len(d.Granted) > 0
}

// DecideGrant grants the whole request when it asks for microphone or camera
// capture, and nothing otherwise. A request for camera and geolocation is
// granted both.
func DecideGrant(requested []string) Decision {
	d := Decision{Requested: requested}
	for _, r := range requested {
		if platform.IsMediaCaptureResource(r) {
			d.Granted = append([]string(nil), requested...)
			break
		}
	}
	return d
}

// GrantPolicy answers page permission requests with DecideGrant.
type GrantPolicy struct {
	log     *zap.Logger
	runOnUI func(func()) error
}

// NewGrantPolicy returns a policy that answers on the UI thread.
func NewGrantPolicy(log *zap.Logger) *GrantPolicy {
	return &GrantPolicy{log: log, runOnUI: platform.RunOnUI}
}

// Handle is the web view's permission handler. It is called on the browser
// engine's thread and moves the answer to the UI thread. If nothing can run
// on the UI thread the request is left for the browser to time out.
func (p *GrantPolicy) Handle(req *platform.WebPermissionRequest) {
	err := p.runOnUI(func() { p.answer(req) })
	if err != nil {
		p.log.Warn("permission request left unanswered",
			zap.String("origin", req.Origin()),
			zap.Strings("resources", req.Resources()),
			zap.Error(err))
	}
}

func (p *GrantPolicy) answer(req *platform.WebPermissionRequest) {
	d := DecideGrant(req.Resources())

	var err error
	if d.Allowed() {
		err = req.Grant(d.Granted)
	} else {
		err = req.Deny()
	}
	p.log.Info("permission request",
		zap.String("origin", req.Origin()),
		zap.Strings("requested", d.Requested),
		zap.Bool("granted", d.Allowed()))

	if err != nil {
		errors.Report(&errors.ShellError{
			Op:   "shell.GrantPolicy.answer",
			Kind: errors.KindPlatform,
			Err:  err,
		})
	}
}
