package platform

import "sync"

// BackButtonService receives presses of the system back button.
//
// Native asks Go on every press whether it was consumed. An unconsumed press
// gets the platform default (finish the activity or move it to the background).
type BackButtonService struct {
	channel *MethodChannel
	mu      sync.RWMutex
	handler func() bool
}

// BackButton is the singleton back button service.
var BackButton = newBackButtonService()

func newBackButtonService() *BackButtonService {
	s := &BackButtonService{channel: NewMethodChannel("drift/back_button")}
	s.channel.SetHandler(s.handleMethodCall)
	return s
}

// SetHandler installs the back press handler. It returns true when the press
// was consumed. Nil leaves every press to the platform default.
func (s *BackButtonService) SetHandler(h func() bool) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *BackButtonService) handleMethodCall(method string, args any) (any, error) {
	if method != "onBackPressed" {
		return nil, ErrMethodNotFound
	}
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()

	handled := false
	if h != nil {
		handled = h()
	}
	return map[string]any{"handled": handled}, nil
}
