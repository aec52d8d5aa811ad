package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.facts/pkg/logging"
)

// freeAddr reserves an available loopback address for a test
// server.
func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// waitForServer polls until the address accepts connections.
func waitForServer(t *testing.T, addr string) {
	t.Helper()
	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("server should be listening")
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		name      string
		addr      string
		collector *EventCollector
		dashboard *DashboardData
	}{
		{
			name:      "with default port",
			addr:      ":8080",
			collector: NewEventCollector(),
			dashboard: NewDashboardData("run-1"),
		},
		{
			name:      "with localhost and custom port",
			addr:      "localhost:9000",
			collector: NewEventCollector(),
			dashboard: NewDashboardData("run-2"),
		},
		{
			name:      "with empty address",
			addr:      "",
			collector: NewEventCollector(),
			dashboard: NewDashboardData("run-3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(tt.addr, tt.collector, tt.dashboard)

			assert.NotNil(t, server)
			assert.Equal(t, tt.addr, server.addr)
			assert.Equal(t, tt.collector, server.collector)
			assert.Equal(t, tt.dashboard, server.dashboard)
			assert.NotNil(t, server.clients)
			assert.Empty(t, server.clients)
		})
	}
}

func TestServer_Start(t *testing.T) {
	t.Run("starts and serves endpoints", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")

		addr := freeAddr(t)
		server := NewServer(addr, collector, dashboard)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- server.Start(ctx)
		}()

		waitForServer(t, addr)

		resp, err := http.Get("http://" + addr + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get("http://" + addr + "/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(
			t,
			"application/json",
			resp.Header.Get("Content-Type"),
		)

		cancel()
		select {
		case err := <-serverErr:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server didn't shut down in time")
		}
	})

	t.Run("returns error for invalid address", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(
			"invalid:address:format:99999", collector, dashboard,
		)

		ctx, cancel := context.WithTimeout(
			context.Background(), 100*time.Millisecond,
		)
		defer cancel()

		err := server.Start(ctx)
		assert.Error(t, err)
	})

	t.Run("returns error when port in use", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer listener.Close()

		port := listener.Addr().(*net.TCPAddr).Port
		addr := fmt.Sprintf("127.0.0.1:%d", port)

		server := NewServer(addr, collector, dashboard)

		ctx, cancel := context.WithTimeout(
			context.Background(), 100*time.Millisecond,
		)
		defer cancel()

		err = server.Start(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "monitor server")
	})
}

func TestServer_Stop(t *testing.T) {
	t.Run("stop before start returns nil", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(":0", collector, dashboard)

		err := server.Stop(context.Background())
		assert.NoError(t, err)
	})

	t.Run("graceful shutdown", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")

		addr := freeAddr(t)
		server := NewServer(addr, collector, dashboard)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- server.Start(ctx)
		}()

		waitForServer(t, addr)

		stopCtx, stopCancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer stopCancel()

		err := server.Stop(stopCtx)
		assert.NoError(t, err)

		select {
		case err := <-serverErr:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server didn't shut down")
		}
	})
}

func TestServer_WS_InitialSnapshot(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")
	dashboard.UpdateFromEvent(RunEvent{
		Type:        EventSuiteStarted,
		Suite:       "calc.fact",
		Description: "arithmetic",
	})

	addr := freeAddr(t)
	server := NewServer(addr, collector, dashboard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = server.Start(ctx)
	}()

	waitForServer(t, addr)

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws://"+addr+"/ws", nil,
	)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap DashboardSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "run-1", snap.RunID)
	assert.Contains(t, snap.Suites, "calc.fact")
}

func TestServer_WS_StreamsEvents(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")

	addr := freeAddr(t)
	server := NewServer(addr, collector, dashboard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	waitForServer(t, addr)

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws://"+addr+"/ws", nil,
	)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// The first message is the dashboard snapshot. Receiving it
	// also proves the client is registered for broadcasts.
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"run-1"`)

	collector.EmitSuiteStarted("calc.fact", "arithmetic")

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"suite_started"`)
	assert.Contains(t, string(data), `"suite":"calc.fact"`)

	collector.EmitFactFailed("calc.fact", "1 + 1 => 3", "12")

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"fact_failed"`)
	assert.Contains(t, string(data), `"line":"12"`)

	// The dashboard tracks the same events.
	snap := dashboard.Snapshot()
	assert.Equal(t, 1, snap.Suites["calc.fact"].Failed)

	cancel()
	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server didn't shut down in time")
	}
}

func TestServer_WS_ClientDisconnect(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")

	addr := freeAddr(t)
	server := NewServer(addr, collector, dashboard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = server.Start(ctx)
	}()

	waitForServer(t, addr)

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws://"+addr+"/ws", nil,
	)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	server.mu.RLock()
	registered := len(server.clients)
	server.mu.RUnlock()
	assert.Equal(t, 1, registered)

	conn.Close()

	// The read pump notices the close and unregisters the
	// client.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		server.mu.RLock()
		registered = len(server.clients)
		server.mu.RUnlock()
		if registered == 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, 0, registered)
}

func TestServer_handleDashboard(t *testing.T) {
	tests := []struct {
		name        string
		setupDash   func(*DashboardData)
		checkResult func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:      "returns empty dashboard",
			setupDash: func(d *DashboardData) {},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(
					t,
					"application/json",
					rec.Header().Get("Content-Type"),
				)

				var data DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &data)
				require.NoError(t, err)
				assert.Equal(t, "running", data.Status)
				assert.Empty(t, data.Suites)
			},
		},
		{
			name: "returns dashboard with suites",
			setupDash: func(d *DashboardData) {
				d.UpdateFromEvent(RunEvent{
					Type:        EventSuiteStarted,
					Suite:       "calc.fact",
					Description: "arithmetic",
				})
				d.UpdateFromEvent(RunEvent{
					Type:     EventSuiteFinished,
					Suite:    "calc.fact",
					Verified: 3,
				})
			},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)

				var data DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &data)
				require.NoError(t, err)
				assert.Len(t, data.Suites, 1)
				assert.Equal(
					t, "passed", data.Suites["calc.fact"].Status,
				)
				assert.Equal(t, 1, data.Summary.Passed)
			},
		},
		{
			name: "returns dashboard with mixed statuses",
			setupDash: func(d *DashboardData) {
				d.UpdateFromEvent(RunEvent{
					Type: EventSuiteFinished, Suite: "a.fact",
					Verified: 1,
				})
				d.UpdateFromEvent(RunEvent{
					Type: EventSuiteFinished, Suite: "b.fact",
					Failed: 1,
				})
				d.UpdateFromEvent(RunEvent{
					Type: EventSuiteStarted, Suite: "c.fact",
				})
			},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var data DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &data)
				require.NoError(t, err)
				assert.Equal(t, 3, data.Summary.Suites)
				assert.Equal(t, 1, data.Summary.Passed)
				assert.Equal(t, 1, data.Summary.Failed)
				assert.Equal(t, 1, data.Summary.Running)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewEventCollector()
			dashboard := NewDashboardData("run-1")
			tt.setupDash(dashboard)

			server := NewServer(":0", collector, dashboard)

			req := httptest.NewRequest("GET", "/dashboard", nil)
			rec := httptest.NewRecorder()

			server.handleDashboard(rec, req)

			tt.checkResult(t, rec)
		})
	}
}

func TestServer_broadcast(t *testing.T) {
	t.Run("broadcasts to all clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(":0", collector, dashboard)

		ch1 := make(chan []byte, 32)
		ch2 := make(chan []byte, 32)

		server.mu.Lock()
		server.clients[ch1] = struct{}{}
		server.clients[ch2] = struct{}{}
		server.mu.Unlock()

		testData := []byte(`{"event":"test"}`)
		server.broadcast(testData)

		select {
		case data := <-ch1:
			assert.Equal(t, testData, data)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("client 1 didn't receive data")
		}

		select {
		case data := <-ch2:
			assert.Equal(t, testData, data)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("client 2 didn't receive data")
		}
	})

	t.Run("skips slow clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(":0", collector, dashboard)

		slowCh := make(chan []byte) // Unbuffered - will block
		fastCh := make(chan []byte, 32)

		server.mu.Lock()
		server.clients[slowCh] = struct{}{}
		server.clients[fastCh] = struct{}{}
		server.mu.Unlock()

		done := make(chan struct{})
		go func() {
			server.broadcast([]byte(`{"test":"data"}`))
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("broadcast blocked on slow client")
		}

		select {
		case data := <-fastCh:
			assert.Equal(t, []byte(`{"test":"data"}`), data)
		default:
			t.Fatal("fast client didn't receive data")
		}
	})

	t.Run("handles no clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(":0", collector, dashboard)

		assert.NotPanics(t, func() {
			server.broadcast([]byte(`{"test":"data"}`))
		})
	})

	t.Run("concurrent broadcast and client modification", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewServer(":0", collector, dashboard)

		var wg sync.WaitGroup

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					server.broadcast(
						[]byte(fmt.Sprintf(`{"id":%d}`, i*100+j)),
					)
				}
			}(i)
		}

		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					ch := make(chan []byte, 32)
					server.mu.Lock()
					server.clients[ch] = struct{}{}
					server.mu.Unlock()

					time.Sleep(time.Microsecond)

					server.mu.Lock()
					delete(server.clients, ch)
					server.mu.Unlock()
				}
			}()
		}

		wg.Wait()
	})
}

func TestServer_Start_MarshalError(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")

	addr := freeAddr(t)
	server := NewServer(addr, collector, dashboard)

	originalMarshal := jsonMarshal
	t.Cleanup(func() { jsonMarshal = originalMarshal })

	jsonMarshal = func(v any) ([]byte, error) {
		return nil, assert.AnError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = server.Start(ctx)
	}()

	waitForServer(t, addr)

	// Emit an event - the marshal error should be handled
	// gracefully.
	collector.EmitSuiteStarted("calc.fact", "")

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_SetLogger(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")

	addr := freeAddr(t)
	server := NewServer(addr, collector, dashboard)

	logger := &captureLogger{}
	server.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	waitForServer(t, addr)

	cancel()
	select {
	case <-serverErr:
	case <-time.After(2 * time.Second):
		t.Fatal("server didn't shut down in time")
	}

	messages := logger.Messages()
	assert.Contains(t, messages, "monitor server listening")
	assert.Contains(t, messages, "monitor server stopping")
}

// captureLogger records log messages for assertions.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *captureLogger) record(msg string) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
}

func (l *captureLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *captureLogger) Info(msg string, fields ...logging.Field) {
	l.record(msg)
}

func (l *captureLogger) Warn(msg string, fields ...logging.Field) {
	l.record(msg)
}

func (l *captureLogger) Error(msg string, fields ...logging.Field) {
	l.record(msg)
}

func (l *captureLogger) Debug(msg string, fields ...logging.Field) {
	l.record(msg)
}

func (l *captureLogger) WithFields(
	fields ...logging.Field,
) logging.Logger {
	return l
}

func (l *captureLogger) Close() error {
	return nil
}
