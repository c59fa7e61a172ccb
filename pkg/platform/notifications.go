package platform

import (
	"context"
	"fmt"
)

// NotificationImportance controls how intrusively a channel's notifications
// are presented (Android channel importance; mapped to interruption level on iOS).
type NotificationImportance string

const (
	NotificationImportanceMin     NotificationImportance = "min"
	NotificationImportanceLow     NotificationImportance = "low"
	NotificationImportanceDefault NotificationImportance = "default"
	NotificationImportanceHigh    NotificationImportance = "high"
)

// Valid reports whether i is a known importance level.
func (i NotificationImportance) Valid() bool {
	switch i {
	case NotificationImportanceMin, NotificationImportanceLow,
		NotificationImportanceDefault, NotificationImportanceHigh:
		return true
	default:
		return false
	}
}

// NotificationChannel describes a delivery channel notifications are posted to.
type NotificationChannel struct {
	ID          string
	Name        string
	Description string
	Importance  NotificationImportance
}

// NotificationRequest describes a notification to show now.
type NotificationRequest struct {
	// ID is the notification slot. Showing a request with the ID of a
	// notification that is still visible replaces it.
	ID int
	// Title is the notification title.
	Title string
	// Body is the notification body text.
	Body string
	// ChannelID is the channel the notification is posted to.
	// Ignored on platforms without channels.
	ChannelID string
	// AutoCancel dismisses the notification when the user taps it.
	AutoCancel bool
}

// NotificationsService posts local notifications.
type NotificationsService struct {
	channel *MethodChannel
}

// Notifications is the singleton notifications service.
var Notifications = &NotificationsService{
	channel: NewMethodChannel("drift/notifications"),
}

// CreateChannel creates or updates a notification channel. Creating an
// existing channel is harmless. Platforms without channels return nil.
// The ctx parameter is currently unused and reserved for future cancellation support.
func (n *NotificationsService) CreateChannel(ctx context.Context, ch NotificationChannel) error {
	if ch.ID == "" {
		return fmt.Errorf("%w: notification channel id is empty", ErrInvalidArguments)
	}
	importance := ch.Importance
	if importance == "" {
		importance = NotificationImportanceDefault
	}
	_, err := n.channel.Invoke("createChannel", map[string]any{
		"id":          ch.ID,
		"name":        ch.Name,
		"description": ch.Description,
		"importance":  string(importance),
	})
	return err
}

// Show displays a notification immediately.
//
// When the user has blocked notifications native returns a ChannelError with
// code ErrCodePermissionDenied; see IsPermissionDenied.
// The ctx parameter is currently unused and reserved for future cancellation support.
func (n *NotificationsService) Show(ctx context.Context, req NotificationRequest) error {
	_, err := n.channel.Invoke("show", map[string]any{
		"id":         req.ID,
		"title":      req.Title,
		"body":       req.Body,
		"channelId":  req.ChannelID,
		"autoCancel": req.AutoCancel,
	})
	return err
}
