package platform

import (
	"encoding/json"
	"sync"
	"testing"
)

// testBridge records native method invocations and answers them through
// respond, when set.
type testBridge struct {
	mu      sync.Mutex
	calls   []testBridgeCall
	started []string
	stopped []string
	respond func(channel, method string, args map[string]any) (any, error)
}

type testBridgeCall struct {
	channel string
	method  string
	args    map[string]any
}

// viewMethod returns the platform view method of an invokeViewMethod call.
func (c testBridgeCall) viewMethod() string {
	s, _ := c.args["method"].(string)
	return s
}

func (b *testBridge) InvokeMethod(channel, method string, argsData []byte) ([]byte, error) {
	var args map[string]any
	if len(argsData) > 0 {
		json.Unmarshal(argsData, &args)
	}
	b.mu.Lock()
	b.calls = append(b.calls, testBridgeCall{channel: channel, method: method, args: args})
	respond := b.respond
	b.mu.Unlock()

	if respond == nil {
		return DefaultCodec.Encode(nil)
	}
	result, err := respond(channel, method, args)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(result)
}

func (b *testBridge) StartEventStream(channel string) error {
	b.mu.Lock()
	b.started = append(b.started, channel)
	b.mu.Unlock()
	return nil
}

func (b *testBridge) StopEventStream(channel string) error {
	b.mu.Lock()
	b.stopped = append(b.stopped, channel)
	b.mu.Unlock()
	return nil
}

// callsTo returns recorded calls on channel, optionally filtered by method.
func (b *testBridge) callsTo(channel, method string) []testBridgeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []testBridgeCall
	for _, c := range b.calls {
		if c.channel == channel && (method == "" || c.method == method) {
			out = append(out, c)
		}
	}
	return out
}

// viewCalls returns invokeViewMethod calls for the given view method.
func (b *testBridge) viewCalls(viewMethod string) []testBridgeCall {
	var out []testBridgeCall
	for _, c := range b.callsTo(platformViewsChannel, "invokeViewMethod") {
		if c.viewMethod() == viewMethod {
			out = append(out, c)
		}
	}
	return out
}

func setupTestBridge(t *testing.T) *testBridge {
	t.Helper()
	bridge := &testBridge{}
	SetupTestBridge(t.Cleanup)
	SetNativeBridge(bridge)
	return bridge
}

// sendViewEvent simulates a native event arriving for a platform view.
func sendViewEvent(t *testing.T, method string, args map[string]any) {
	t.Helper()
	args["method"] = method
	data, err := DefaultCodec.Encode(args)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	if err := HandleEvent(platformViewsChannel, data); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
}
