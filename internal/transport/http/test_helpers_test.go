package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/giveaway-server/internal/config"
	"github.com/vovakirdan/giveaway-server/internal/core"
	applog "github.com/vovakirdan/giveaway-server/internal/log"
	"github.com/vovakirdan/giveaway-server/internal/profile"
	"github.com/vovakirdan/giveaway-server/internal/proto"
	"github.com/vovakirdan/giveaway-server/internal/service/social"
	"github.com/vovakirdan/giveaway-server/internal/store/sqlite"
)

// fakeProfiles is a canned ProfileLookup.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
	err      error
	calls    []string
}

func (f *fakeProfiles) Lookup(_ context.Context, username string) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, username)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[username]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

type testEnv struct {
	server   *httptest.Server
	hub      *core.Hub
	profiles *fakeProfiles
	cfg      *config.Config
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.DatabasePath = ":memory:"
	return &cfg
}

// startTestServer wires a hub, an in-memory store and a fake profile lookup
// behind the real router.
func startTestServer(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := applog.Nop()
	hub := core.NewHub(core.Options{
		HistoryLimit: cfg.Chat.HistoryLimit,
		DefaultUser:  cfg.Chat.DefaultUser,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()

	profiles := &fakeProfiles{profiles: map[string]*profile.Profile{}}
	router := NewRouter(Deps{
		Hub:      hub,
		Social:   social.New(st, social.Options{}),
		Profiles: profiles,
	}, cfg, logger)

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})

	return &testEnv{server: ts, hub: hub, profiles: profiles, cfg: cfg}
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(e.server.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// do sends a request to the test server and returns the status and body.
func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

type historyFrame struct {
	Event string          `json:"event"`
	Data  []proto.Message `json:"data"`
	Error *proto.Error    `json:"error"`
}

type messageFrame struct {
	Event string        `json:"event"`
	Data  proto.Message `json:"data"`
	Error *proto.Error  `json:"error"`
}

func readFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsjson.Read(ctx, conn, v); err != nil {
		t.Fatalf("read frame: %v", err)
	}
}

func readHistory(t *testing.T, conn *websocket.Conn) []proto.Message {
	t.Helper()

	var frame historyFrame
	readFrame(t, conn, &frame)
	if frame.Event != proto.EventPreviousMessages {
		t.Fatalf("expected %s, got %s", proto.EventPreviousMessages, frame.Event)
	}
	return frame.Data
}

func readNewMessage(t *testing.T, conn *websocket.Conn) proto.Message {
	t.Helper()

	var frame messageFrame
	readFrame(t, conn, &frame)
	if frame.Event != proto.EventNewMessage {
		t.Fatalf("expected %s, got %s (error=%+v)", proto.EventNewMessage, frame.Event, frame.Error)
	}
	return frame.Data
}

func readError(t *testing.T, conn *websocket.Conn) *proto.Error {
	t.Helper()

	var frame messageFrame
	readFrame(t, conn, &frame)
	if frame.Event != proto.EventError || frame.Error == nil {
		t.Fatalf("expected error event, got %+v", frame)
	}
	return frame.Error
}

func sendMessage(t *testing.T, conn *websocket.Conn, data proto.SendMessageData) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, conn, map[string]any{
		"event": proto.EventSendMessage,
		"data":  data,
	}); err != nil {
		t.Fatalf("send message: %v", err)
	}
}

// assertJSONEq compares two JSON documents ignoring formatting and key order.
func assertJSONEq(t *testing.T, want, got string) {
	t.Helper()

	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expected json: %v", err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("bad json %q: %v", got, err)
	}
	if !reflect.DeepEqual(w, g) {
		t.Fatalf("json mismatch:\nwant %s\ngot  %s", want, got)
	}
}
