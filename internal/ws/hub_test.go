package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 8)}
}

func TestBroadcastToUser(t *testing.T) {
	h := NewHub()
	a := newTestClient(1)
	b := newTestClient(2)
	h.Register(a)
	h.Register(b)

	h.BroadcastToUser(1, map[string]string{"hello": "world"})

	select {
	case msg := <-a.Send:
		var got map[string]string
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["hello"] != "world" {
			t.Errorf("payload = %v", got)
		}
	default:
		t.Fatal("user 1 received nothing")
	}

	select {
	case <-b.Send:
		t.Fatal("user 2 must not receive user 1's message")
	default:
	}
}

func TestUnregisterOnClose(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)
	if h.ClientCount() != 1 {
		t.Fatalf("count = %d, want 1", h.ClientCount())
	}
	c.Close()
	if h.ClientCount() != 0 {
		t.Errorf("count after close = %d, want 0", h.ClientCount())
	}
	// Closing twice is a no-op, not a panic on a closed channel.
	c.Close()
}

func TestBroadcastFundingFilter(t *testing.T) {
	h := NewFundingHub()
	subscribed := newTestClient(1)
	firehose := newTestClient(2)
	h.Register(subscribed)
	h.Register(firehose)
	subscribed.Subscribe(7)

	h.BroadcastFunding(7, 500000, 1000000, 50)
	h.BroadcastFunding(9, 100, 200, 50)

	if got := len(subscribed.Send); got != 1 {
		t.Errorf("subscribed client got %d messages, want only project 7", got)
	}
	if got := len(firehose.Send); got != 2 {
		t.Errorf("unsubscribed client got %d messages, want all", got)
	}

	msg := <-subscribed.Send
	var upd struct {
		Type            string  `json:"type"`
		ProjectID       uint    `json:"project_id"`
		ProgressPercent float64 `json:"progress_percent"`
	}
	if err := json.Unmarshal(msg, &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if upd.Type != "funding_update" || upd.ProjectID != 7 || upd.ProgressPercent != 50 {
		t.Errorf("update = %+v", upd)
	}
}
