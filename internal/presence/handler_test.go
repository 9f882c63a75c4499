// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/models"
)

type wireMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func startServer(t *testing.T, cfg HandlerConfig) (*Registry, *httptest.Server, *auth.JWTManager) {
	t.Helper()
	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "presence_test_secret_with_enough_length_123"})
	if err != nil {
		t.Fatal(err)
	}
	registry := NewRegistry(RegistryConfig{})
	srv := httptest.NewServer(NewHandler(registry, auth.NewResolver(jwtManager), cfg))
	t.Cleanup(srv.Close)
	return registry, srv, jwtManager
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	header := http.Header{"Origin": []string{"http://shop.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad frame %s: %v", data, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func readCount(t *testing.T, conn *websocket.Conn, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg := readUntil(t, conn, models.MessageTypeViewerCount)
		var vc models.ViewerCount
		_ = json.Unmarshal(msg.Data, &vc)
		if vc.Count == want {
			return
		}
	}
	t.Fatalf("never saw viewer count %d", want)
}

func TestRealtimeJoinAndDisconnect(t *testing.T) {
	registry, srv, _ := startServer(t, HandlerConfig{AllowedOrigins: []string{"*"}})

	a := dial(t, srv, "")
	b := dial(t, srv, "")
	send(t, a, `{"type":"join","data":{"productId":"p7"}}`)
	readCount(t, a, 1)
	send(t, b, `{"type":"join","data":{"productId":"p7"}}`)
	readCount(t, a, 2)

	_ = b.Close()
	readCount(t, a, 1)
	if registry.Count("p7") != 1 {
		t.Errorf("Count(p7) = %d, want 1", registry.Count("p7"))
	}
}

func TestRealtimePingAndErrors(t *testing.T) {
	_, srv, _ := startServer(t, HandlerConfig{AllowedOrigins: []string{"*"}})
	conn := dial(t, srv, "")

	send(t, conn, `{"type":"ping"}`)
	readUntil(t, conn, models.MessageTypePong)

	send(t, conn, `{"type":"leave","data":{"productId":"p1"}}`)
	msg := readUntil(t, conn, models.MessageTypeError)
	if !strings.Contains(string(msg.Data), CodeNotInRoom) {
		t.Errorf("error frame = %s, want %s", msg.Data, CodeNotInRoom)
	}

	send(t, conn, `{"type":"dance"}`)
	msg = readUntil(t, conn, models.MessageTypeError)
	if !strings.Contains(string(msg.Data), CodeUnknownType) {
		t.Errorf("error frame = %s, want %s", msg.Data, CodeUnknownType)
	}
}

func TestRealtimeRateLimit(t *testing.T) {
	_, srv, _ := startServer(t, HandlerConfig{AllowedOrigins: []string{"*"}, InboundRate: 0.001, InboundBurst: 1})
	conn := dial(t, srv, "")

	send(t, conn, `{"type":"ping"}`)
	readUntil(t, conn, models.MessageTypePong)
	send(t, conn, `{"type":"ping"}`)
	msg := readUntil(t, conn, models.MessageTypeError)
	if !strings.Contains(string(msg.Data), CodeRateLimited) {
		t.Errorf("error frame = %s, want %s", msg.Data, CodeRateLimited)
	}
}

func TestRealtimeTokenIdentity(t *testing.T) {
	registry, srv, jwtManager := startServer(t, HandlerConfig{AllowedOrigins: []string{"*"}})
	token, _ := jwtManager.GenerateToken("user-1", time.Hour)

	conn := dial(t, srv, "?token="+token)
	send(t, conn, `{"type":"join","data":{"productId":"p1"}}`)
	readCount(t, conn, 1)
	if registry.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", registry.Sessions())
	}
}

func TestRealtimeRejectsInvalidToken(t *testing.T) {
	registry, srv, _ := startServer(t, HandlerConfig{AllowedOrigins: []string{"*"}})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=forged"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://shop.example"}})
	if err == nil {
		t.Fatal("Dial() with invalid token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("response = %v, want 401", resp)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	if registry.Sessions() != 0 {
		t.Errorf("Sessions() = %d, want 0", registry.Sessions())
	}
}

func TestRealtimeRejectsOrigin(t *testing.T) {
	_, srv, _ := startServer(t, HandlerConfig{AllowedOrigins: []string{"https://shop.example"}})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	if err == nil {
		t.Fatal("Dial() from disallowed origin should fail")
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
}
