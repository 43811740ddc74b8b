package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	commonhttp "github.com/rflgf/mahjong-cli/common/http"
)

func TestStreamEvaluate(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/evaluate/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	req := map[string]any{
		"id":     "h1",
		"seat":   "west",
		"hand":   []string{"WW", "WW", "WW", "M1", "M2", "M3", "P4", "P5", "P6", "S7", "S8", "S9", "M5", "M5"},
		"riichi": true,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply streamMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.ID != "h1" || reply.Code != commonhttp.CodeSuccess || reply.Data == nil {
		t.Fatalf("unexpected reply %+v", reply)
	}
	labels := make([]string, 0, len(reply.Data.Yakus))
	for _, y := range reply.Data.Yakus {
		labels = append(labels, y.Label)
	}
	if strings.Join(labels, ",") != "Seat wind: West Wind,Riichi" {
		t.Fatalf("unexpected yakus %v", labels)
	}

	if err := conn.WriteJSON(map[string]any{"id": "h2", "seat": "west", "hand": []string{"M1"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = streamMessage{}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.ID != "h2" || reply.Code != commonhttp.CodeInvalidParam || reply.Data != nil {
		t.Fatalf("invalid hand expected CodeInvalidParam, got %+v", reply)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{broken")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = streamMessage{}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Code != commonhttp.CodeInvalidParam {
		t.Fatalf("broken json expected CodeInvalidParam, got %+v", reply)
	}
}

func TestShutdownClosesStreams(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(server)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/evaluate/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// 先完成一次判定，确保流已经登记
	if err := conn.WriteJSON(map[string]any{"id": "s1", "seat": "east", "hand": []string{"M1"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply streamMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := server.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("stream expected closed after shutdown")
	}

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	defer late.Close()
	_ = late.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Fatalf("stream opened after shutdown expected closed")
	}
}
