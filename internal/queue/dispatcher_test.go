package queue

import (
	"context"
	"errors"
	"testing"

	"interview-backend/internal/notify"
)

type fakeClient struct {
	sent []Message
	err  error
}

func (f *fakeClient) Send(ctx context.Context, msg Message) error {
	_ = ctx
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestDispatcherEnqueuesInvitation(t *testing.T) {
	client := &fakeClient{}
	d := &Dispatcher{Client: client}

	inv := notify.Invitation{
		CandidateEmail: "jordan@example.com",
		SessionID:      "sess-1",
		StageOrder:     3,
		StageName:      "Final Review",
	}
	if err := d.SendStageInvitation(context.Background(), inv); err != nil {
		t.Fatalf("SendStageInvitation: %v", err)
	}

	if len(client.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(client.sent))
	}
	msg := client.sent[0]
	if msg.Invitation.SessionID != "sess-1" || msg.Invitation.StageOrder != 3 {
		t.Fatalf("unexpected invitation: %+v", msg.Invitation)
	}
	if msg.Version != 1 {
		t.Fatalf("version = %d", msg.Version)
	}
	if msg.EnqueuedAt == "" {
		t.Fatal("expected enqueue timestamp")
	}
}

func TestDispatcherSurfacesClientError(t *testing.T) {
	d := &Dispatcher{Client: &fakeClient{err: errors.New("sqs down")}}
	err := d.SendStageInvitation(context.Background(), notify.Invitation{CandidateEmail: "jordan@example.com"})
	if err == nil {
		t.Fatal("expected error from client")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	original := Message{
		Invitation: notify.Invitation{
			CandidateEmail: "jordan@example.com",
			CandidateName:  "Jordan",
			SessionID:      "sess-9",
			StageOrder:     2,
			StageName:      "Demo Round",
			Completed:      false,
		},
		EnqueuedAt: "2026-08-30T10:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(original)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	decoded, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, original)
	}
}

func TestDecodeMessageInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{bad")); err == nil {
		t.Fatal("expected decode error")
	}
}
