// Package notify posts the shell's system notifications.
//
// Every notification goes to one fixed channel and one fixed slot, so a new
// post replaces whatever the shell showed before instead of stacking.
package notify

import (
	"context"
	"errors"
	"sync"

	shellerrors "github.com/livego/shell/pkg/errors"
	"github.com/livego/shell/pkg/platform"
)

const notificationsChannel = "drift/notifications"

// Service is the part of the platform notifications service the shell uses.
// *platform.NotificationsService implements it.
type Service interface {
	CreateChannel(ctx context.Context, ch platform.NotificationChannel) error
	Show(ctx context.Context, req platform.NotificationRequest) error
}

// ChannelManager makes sure the delivery channel exists before anything is
// posted to it.
type ChannelManager struct {
	service Service
	channel platform.NotificationChannel

	mu    sync.Mutex
	ready bool // guarded by mu
}

// NewChannelManager returns a manager for the given channel identity.
func NewChannelManager(service Service, channel platform.NotificationChannel) *ChannelManager {
	return &ChannelManager{service: service, channel: channel}
}

// Channel returns the channel identity.
func (m *ChannelManager) Channel() platform.NotificationChannel {
	return m.channel
}

// Ensure creates the channel once per process. Later calls are no-ops.
// A platform without a notification service, or without channels, counts as
// done. Other failures are logged and retried on the next call.
func (m *ChannelManager) Ensure(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return
	}

	err := m.service.CreateChannel(ctx, m.channel)
	if err == nil || serviceMissing(err) {
		m.ready = true
		return
	}
	shellerrors.Report(&shellerrors.ShellError{
		Op:      "notify.ChannelManager.Ensure",
		Kind:    shellerrors.KindPlatform,
		Channel: notificationsChannel,
		Err:     err,
	})
}

func serviceMissing(err error) bool {
	if errors.Is(err, platform.ErrPlatformUnavailable) || errors.Is(err, platform.ErrMethodNotFound) {
		return true
	}
	var ce *platform.ChannelError
	return errors.As(err, &ce) && ce.Code == platform.ErrCodeUnavailable
}

// Dispatcher builds and posts notifications.
type Dispatcher struct {
	service  Service
	channels *ChannelManager
	slot     int
}

// NewDispatcher returns a dispatcher posting to channels' channel under the
// notification ID slot.
func NewDispatcher(service Service, channels *ChannelManager, slot int) *Dispatcher {
	return &Dispatcher{service: service, channels: channels, slot: slot}
}

// Post shows a notification with the given title and body. It is a no-op if
// either is empty. Posting is best effort: failures, including notifications
// blocked by the user, are logged and never returned.
func (d *Dispatcher) Post(ctx context.Context, title, body string) {
	if title == "" || body == "" {
		return
	}
	defer shellerrors.Recover("notify.Dispatcher.Post")

	d.channels.Ensure(ctx)
	err := d.service.Show(ctx, platform.NotificationRequest{
		ID:         d.slot,
		Title:      title,
		Body:       body,
		ChannelID:  d.channels.Channel().ID,
		AutoCancel: true,
	})
	if err == nil {
		return
	}

	kind := shellerrors.KindPlatform
	if platform.IsPermissionDenied(err) {
		kind = shellerrors.KindConsent
	}
	shellerrors.Report(&shellerrors.ShellError{
		Op:      "notify.Dispatcher.Post",
		Kind:    kind,
		Channel: notificationsChannel,
		Err:     err,
	})
}
