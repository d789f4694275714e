package workerproc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"interview-backend/internal/notify"
	"interview-backend/internal/queue"
)

type fakeDispatcher struct {
	sent []notify.Invitation
	err  error
}

func (f *fakeDispatcher) SendStageInvitation(ctx context.Context, inv notify.Invitation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, inv)
	return nil
}

func encodeBody(t *testing.T, msg queue.Message) string {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return string(payload)
}

func TestParseMessageEmptyBody(t *testing.T) {
	_, _, err := ParseMessage("   ")
	var emptyErr ErrEmptyBody
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestParseMessageDecodeFailure(t *testing.T) {
	_, meta, err := ParseMessage("{not json")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodyLen == 0 || meta.BodySHA == "" {
		t.Fatalf("expected populated meta, got %+v", meta)
	}
}

func TestParseMessageMissingRecipient(t *testing.T) {
	body := encodeBody(t, queue.Message{
		Invitation: notify.Invitation{SessionID: "sess-1", StageName: "Demo Round"},
		Version:    1,
	})
	_, _, err := ParseMessage(body)
	var missingErr ErrMissingRecipient
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}
	if missingErr.SessionID != "sess-1" {
		t.Fatalf("expected session id carried on error, got %q", missingErr.SessionID)
	}
}

func TestHandleMessageDelivers(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	inv := notify.Invitation{
		CandidateEmail: "jordan@example.com",
		CandidateName:  "Jordan",
		SessionID:      "sess-7",
		StageOrder:     2,
		StageName:      "Demo Round",
	}
	body := encodeBody(t, queue.Message{Invitation: inv, Version: 1})

	if err := HandleMessage(context.Background(), dispatcher, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(dispatcher.sent))
	}
	if dispatcher.sent[0].SessionID != "sess-7" || dispatcher.sent[0].StageOrder != 2 {
		t.Fatalf("unexpected invitation delivered: %+v", dispatcher.sent[0])
	}
}

func TestHandleMessageReusesParsedContext(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	inv := notify.Invitation{CandidateEmail: "jordan@example.com", SessionID: "sess-9"}
	ctx := WithParsedMessage(context.Background(), queue.Message{Invitation: inv, Version: 1})

	// Body is garbage; the parsed message in the context takes precedence.
	if err := HandleMessage(ctx, dispatcher, "{not json"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].SessionID != "sess-9" {
		t.Fatalf("expected delivery from parsed context, got %+v", dispatcher.sent)
	}
}

func TestHandleMessageDeliveryFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("smtp down")}
	inv := notify.Invitation{CandidateEmail: "jordan@example.com", SessionID: "sess-3"}
	body := encodeBody(t, queue.Message{Invitation: inv, Version: 1})

	err := HandleMessage(context.Background(), dispatcher, body)
	var deliverErr ErrDeliver
	if !errors.As(err, &deliverErr) {
		t.Fatalf("expected ErrDeliver, got %v", err)
	}
	if deliverErr.SessionID != "sess-3" {
		t.Fatalf("expected session id on error, got %q", deliverErr.SessionID)
	}
}

func TestHandleMessageNilDispatcher(t *testing.T) {
	body := encodeBody(t, queue.Message{
		Invitation: notify.Invitation{CandidateEmail: "jordan@example.com"},
	})
	if err := HandleMessage(context.Background(), nil, body); err == nil {
		t.Fatal("expected error for nil dispatcher")
	}
}
