package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/proctorkit/examclock/internal/countdown"
	"github.com/proctorkit/examclock/internal/session"
	pkghttp "github.com/proctorkit/examclock/pkg/http"
	"github.com/proctorkit/examclock/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger.Log = zerolog.Nop()

	clock := session.NewSession(countdown.Config{
		TotalDurationSec:       3600,
		WarningThresholdSec:    900,
		RestrictionDurationSec: 2700,
		ExtraTimeLimitSec:      -1800,
	}, countdown.SystemClock)
	go clock.Start()
	t.Cleanup(clock.Close)

	handler := NewHandler(zerolog.Nop(), render.New(), clock)
	r := NewRouter(pkghttp.RouterConfig{
		TimeoutSec:         30,
		RequestPerSecLimit: 1000,
		DisableCors:        true,
	})
	r = AddRoutes(r, handler)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func getSnapshot(t *testing.T, resp *http.Response) countdown.Snapshot {
	t.Helper()
	defer resp.Body.Close()
	var snap countdown.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/clock/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	snap := getSnapshot(t, resp)
	if snap.RemainingSec != 3600 || snap.Running {
		t.Errorf("expected pristine snapshot, got %+v", snap)
	}
}

func TestCommandEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/clock/start", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	snap := getSnapshot(t, resp)
	if !snap.Running {
		t.Error("expected clock running after start")
	}

	resp, err = http.Post(ts.URL+"/clock/extra-time", "application/json", strings.NewReader(`{"Enabled":true}`))
	if err != nil {
		t.Fatal(err)
	}
	snap = getSnapshot(t, resp)
	if !snap.ExtraTimeEnabled {
		t.Error("expected extra time enabled")
	}

	resp, err = http.Post(ts.URL+"/clock/pause", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	snap = getSnapshot(t, resp)
	if snap.Running {
		t.Error("expected clock paused")
	}

	resp, err = http.Post(ts.URL+"/clock/autostart/arm", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	snap = getSnapshot(t, resp)
	if !snap.AutoStartArmed || snap.AutoStartAt == nil {
		t.Errorf("expected armed scheduler with target, got %+v", snap)
	}

	resp, err = http.Post(ts.URL+"/clock/reset", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	snap = getSnapshot(t, resp)
	if snap.Running || snap.AutoStartArmed || snap.RemainingSec != 3600 {
		t.Errorf("expected pristine state after reset, got %+v", snap)
	}
}

func TestNewServerRejectsBadClockConfig(t *testing.T) {
	logger.Log = zerolog.Nop()

	_, err := NewServer(Config{
		Server: pkghttp.ServerConfig{Port: "8080"},
		Clock: countdown.Config{
			TotalDurationSec: 0,
		},
	}, zerolog.Nop())

	if err == nil {
		t.Fatal("expected an error for a zero total duration")
	}
}

func TestBadExtraTimeBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/clock/extra-time", "application/json", strings.NewReader(`not json`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWatchReceivesSnapshots(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/clock/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg session.OutboundMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "Snapshot" {
		t.Fatalf("expected initial snapshot, got %s", msg.Type)
	}

	if err := conn.WriteJSON(session.Command{Type: session.CommandStart}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	payload, _ := json.Marshal(msg.Payload)
	var snap countdown.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatal(err)
	}
	if !snap.Running {
		t.Errorf("expected running snapshot after start command, got %+v", snap)
	}
}
