package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSend_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/push" {
			t.Fatalf("path = %s, want /api/push", r.URL.Path)
		}

		var msg Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Token != "device-token" {
			t.Fatalf("token = %q, want device-token", msg.Token)
		}
		if msg.Title == "" || msg.Body == "" {
			t.Fatalf("empty title or body: %+v", msg)
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := client.Send(ctx, Message{
		Token: "device-token",
		Title: "MISSION START: reading",
		Body:  "Time to execute your daily quest.",
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
}

func TestSend_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := client.Send(ctx, Message{Token: "t", Title: "x", Body: "y"})
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestSend_NotConfigured(t *testing.T) {
	var client *Client

	err := client.Send(context.Background(), Message{Token: "t"})
	if err == nil {
		t.Fatalf("expected error for nil client")
	}
}
