// Package bridge exposes native capabilities to the hosted page.
package bridge

import (
	"context"

	"github.com/livego/shell/pkg/platform"
)

// MethodShowNotification is the only symbol the page can call.
const MethodShowNotification = "showNotification"

// Poster posts a notification. *notify.Dispatcher implements it.
type Poster interface {
	Post(ctx context.Context, title, body string)
}

// ScriptBridge is the object injected into page script. It holds nothing but
// the poster, so a page can reach no other native state through it.
type ScriptBridge struct {
	poster Poster
}

// New returns a bridge that forwards to poster.
func New(poster Poster) *ScriptBridge {
	return &ScriptBridge{poster: poster}
}

// ShowNotification forwards title and body unchanged. Empty values are
// dropped by the poster, not here.
func (b *ScriptBridge) ShowNotification(title, body string) {
	b.poster.Post(context.Background(), title, body)
}

// Interface returns the script interface to install as window.<name>.
// It declares showNotification and nothing else.
func (b *ScriptBridge) Interface(name string) platform.JavaScriptInterface {
	return platform.JavaScriptInterface{
		Name: name,
		Methods: map[string]platform.JavaScriptMethod{
			MethodShowNotification: func(args []any) {
				b.ShowNotification(stringArg(args, 0), stringArg(args, 1))
			},
		},
	}
}

// stringArg returns args[i] if it is a string. Missing, null and non-string
// arguments read as "".
func stringArg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}
