package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatServer is a stub of the remote chat service that replies with a
// fixed string and records the last request body.
func chatServer(t *testing.T, reply string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var last chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Reply: reply})
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestSendAppendsHistory(t *testing.T) {
	srv, last := chatServer(t, "looks good")
	c := NewClient(srv.URL)

	got := c.Send(context.Background(), "what do you think?", nil)
	if got != "looks good" {
		t.Fatalf("reply = %q", got)
	}

	hist := c.History()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[0].Role != RoleUser || hist[0].Text != "what do you think?" {
		t.Errorf("user entry = %+v", hist[0])
	}
	if hist[1].Role != RoleAssistant || hist[1].Text != "looks good" {
		t.Errorf("assistant entry = %+v", hist[1])
	}

	// The request carried exactly the outgoing message.
	if len(last.Messages) != 1 {
		t.Fatalf("request carried %d messages, want 1", len(last.Messages))
	}
}

func TestSendResendsFullHistory(t *testing.T) {
	srv, last := chatServer(t, "ok")
	c := NewClient(srv.URL)

	c.Send(context.Background(), "first", nil)
	c.Send(context.Background(), "second", nil)

	// Second request: prior user+assistant turns plus the new prompt.
	if len(last.Messages) != 3 {
		t.Fatalf("request carried %d messages, want 3", len(last.Messages))
	}
	if last.Messages[2].Text != "second" {
		t.Errorf("final message = %+v", last.Messages[2])
	}
}

func TestSendCarriesImagePayload(t *testing.T) {
	srv, last := chatServer(t, "nice picture")
	c := NewClient(srv.URL)

	png := []byte{0x89, 'P', 'N', 'G'}
	c.Send(context.Background(), "describe this", png)

	if len(last.Messages) != 1 {
		t.Fatal("request missing the message")
	}
	if string(last.Messages[0].ImagePNG) != string(png) {
		t.Errorf("image payload = %v", last.Messages[0].ImagePNG)
	}
}

func TestSendFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got := c.Send(context.Background(), "hello", nil)
	if got != DefaultFallback {
		t.Errorf("reply = %q, want the fallback", got)
	}
	// Failed exchanges never enter the transcript.
	if len(c.History()) != 0 {
		t.Errorf("history after failure = %d entries, want 0", len(c.History()))
	}
}

func TestSendFallbackOnUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", WithFallback("try again later"))
	if got := c.Send(context.Background(), "hello", nil); got != "try again later" {
		t.Errorf("reply = %q, want the custom fallback", got)
	}
}

func TestSendFallbackOnMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if got := c.Send(context.Background(), "hello", nil); got != DefaultFallback {
		t.Errorf("reply = %q, want the fallback", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	srv, _ := chatServer(t, "ok")
	c := NewClient(srv.URL)
	c.Send(context.Background(), "hello", nil)

	hist := c.History()
	hist[0].Text = "tampered"
	if c.History()[0].Text != "hello" {
		t.Error("History exposed internal state")
	}
}
