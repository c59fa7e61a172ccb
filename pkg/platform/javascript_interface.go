package platform

import (
	"fmt"
	"sort"
	"unicode"
)

// JavaScriptMethod handles one call from page script. Arguments are the
// decoded JSON values of the call's positional parameters. The call has no
// return channel back to the page.
type JavaScriptMethod func(args []any)

// JavaScriptInterface is a native object injected into page script as
// window.<Name>. Only the methods listed in Methods are visible to the page;
// native rejects calls to any other symbol and so does the Go side.
type JavaScriptInterface struct {
	Name    string
	Methods map[string]JavaScriptMethod
}

// MethodNames returns the exposed method names in sorted order.
func (i JavaScriptInterface) MethodNames() []string {
	names := make([]string, 0, len(i.Methods))
	for name := range i.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (i JavaScriptInterface) validate() error {
	if !IsJavaScriptIdentifier(i.Name) {
		return fmt.Errorf("%w: interface name %q is not a JavaScript identifier", ErrInvalidArguments, i.Name)
	}
	if len(i.Methods) == 0 {
		return fmt.Errorf("%w: interface %q exposes no methods", ErrInvalidArguments, i.Name)
	}
	for name, fn := range i.Methods {
		if !IsJavaScriptIdentifier(name) {
			return fmt.Errorf("%w: method name %q is not a JavaScript identifier", ErrInvalidArguments, name)
		}
		if fn == nil {
			return fmt.Errorf("%w: method %q has no handler", ErrInvalidArguments, name)
		}
	}
	return nil
}

// clone copies the method table so later changes by the caller cannot widen
// what the page can reach.
func (i JavaScriptInterface) clone() JavaScriptInterface {
	methods := make(map[string]JavaScriptMethod, len(i.Methods))
	for name, fn := range i.Methods {
		methods[name] = fn
	}
	return JavaScriptInterface{Name: i.Name, Methods: methods}
}

// IsJavaScriptIdentifier reports whether s is usable as a plain JavaScript
// property name. Reserved words are not rejected.
func IsJavaScriptIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
