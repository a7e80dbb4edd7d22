// internal/bc125/session_test.go
package bc125

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"scanner-service/internal/protocol"
)

// scriptedTransport replies from a fixed command->reply table and records
// what was sent.
type scriptedTransport struct {
	replies map[string]string
	err     error
	sent    []string
	open    bool
}

func (t *scriptedTransport) Open(ctx context.Context) error { t.open = true; return nil }
func (t *scriptedTransport) Close() error                   { t.open = false; return nil }
func (t *scriptedTransport) IsOpen() bool                   { return t.open }

func (t *scriptedTransport) Send(ctx context.Context, command string) (string, error) {
	t.sent = append(t.sent, command)
	if t.err != nil {
		return "", t.err
	}
	reply, ok := t.replies[command]
	if !ok {
		return command + ",ERR", nil
	}
	return reply, nil
}

func newTestSession(transport protocol.Transport) *Session {
	return NewSession(transport, zap.NewNop())
}

func TestSessionFetch(t *testing.T) {
	transport := &scriptedTransport{replies: map[string]string{
		"MDL":     "MDL,BC125AT",
		"VOL":     "VOL,12",
		"CIN,100": "CIN,100,FIRE1,1542650,FM,128,2,0,1",
	}}
	session := newTestSession(transport)
	ctx := context.Background()

	var model DeviceModel
	if err := session.Fetch(ctx, &model); err != nil {
		t.Fatalf("Fetch(DeviceModel) error: %v", err)
	}
	if model.Model != "BC125AT" {
		t.Errorf("Model = %q, want BC125AT", model.Model)
	}

	var volume Volume
	if err := session.Fetch(ctx, &volume); err != nil {
		t.Fatalf("Fetch(Volume) error: %v", err)
	}
	if volume.Level != 12 {
		t.Errorf("Level = %d, want 12", volume.Level)
	}

	var ch Channel
	if err := session.Fetch(ctx, &ch, 100); err != nil {
		t.Fatalf("Fetch(Channel, 100) error: %v", err)
	}
	if ch.Name != "FIRE1" || ch.FrequencyMHz != "154.265" {
		t.Errorf("channel = %+v", ch)
	}

	want := []string{"MDL", "VOL", "CIN,100"}
	if len(transport.sent) != len(want) {
		t.Fatalf("sent %v, want %v", transport.sent, want)
	}
	for i := range want {
		if transport.sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, transport.sent[i], want[i])
		}
	}
}

func TestSessionFetchRejected(t *testing.T) {
	for _, reply := range []string{"CIN,ERR", "NG"} {
		transport := &scriptedTransport{replies: map[string]string{"CIN,1": reply}}
		session := newTestSession(transport)

		var ch Channel
		err := session.Fetch(context.Background(), &ch, 1)
		if !errors.Is(err, ErrCommandRejected) {
			t.Errorf("Fetch with reply %q error = %v, want ErrCommandRejected", reply, err)
		}
	}
}

func TestSessionWrite(t *testing.T) {
	transport := &scriptedTransport{replies: map[string]string{
		"VOL,9":   "VOL,OK",
		"DCH,250": "DCH,OK",
	}}
	session := newTestSession(transport)
	ctx := context.Background()

	if err := session.Write(ctx, &Volume{Level: 9}); err != nil {
		t.Fatalf("Write(Volume) error: %v", err)
	}
	if err := session.Write(ctx, &DeleteChannel{}, 250); err != nil {
		t.Fatalf("Write(DeleteChannel) error: %v", err)
	}

	if len(transport.sent) != 2 || transport.sent[1] != "DCH,250" {
		t.Errorf("sent = %v", transport.sent)
	}
}

func TestSessionWriteRejected(t *testing.T) {
	transport := &scriptedTransport{replies: map[string]string{"VOL,9": "VOL,NG"}}
	session := newTestSession(transport)

	err := session.Write(context.Background(), &Volume{Level: 9})
	if !errors.Is(err, ErrCommandRejected) {
		t.Errorf("Write error = %v, want ErrCommandRejected", err)
	}
}

func TestSessionWriteInvalidObjectNeverTouchesTransport(t *testing.T) {
	transport := &scriptedTransport{}
	session := newTestSession(transport)

	err := session.Write(context.Background(), &Volume{Level: 99})
	if !errors.Is(err, ErrFieldOutOfRange) {
		t.Fatalf("Write error = %v, want ErrFieldOutOfRange", err)
	}
	if len(transport.sent) != 0 {
		t.Errorf("transport saw %v, want nothing", transport.sent)
	}
}

func TestSessionWriteTolerant(t *testing.T) {
	// EPG is rejected when the scanner is not in program mode; the unlock
	// path must treat that as success.
	transport := &scriptedTransport{replies: map[string]string{"EPG": "EPG,ERR"}}
	session := newTestSession(transport)

	if err := session.WriteTolerant(context.Background(), &Unlock{}); err != nil {
		t.Fatalf("WriteTolerant error: %v", err)
	}
	if err := session.WriteTolerant(context.Background(), &Unlock{}); err != nil {
		t.Fatalf("WriteTolerant (second) error: %v", err)
	}
	if len(transport.sent) != 2 {
		t.Errorf("sent = %v, want two EPG commands", transport.sent)
	}
}

func TestSessionTransportErrorsPassThrough(t *testing.T) {
	for _, transportErr := range []error{protocol.ErrTimeout, protocol.ErrIO, protocol.ErrNotOpen} {
		transport := &scriptedTransport{err: transportErr}
		session := newTestSession(transport)
		ctx := context.Background()

		var volume Volume
		if err := session.Fetch(ctx, &volume); !errors.Is(err, transportErr) {
			t.Errorf("Fetch error = %v, want %v", err, transportErr)
		}
		if err := session.Write(ctx, &Volume{Level: 1}); !errors.Is(err, transportErr) {
			t.Errorf("Write error = %v, want %v", err, transportErr)
		}
		if err := session.WriteTolerant(ctx, &Unlock{}); !errors.Is(err, transportErr) {
			t.Errorf("WriteTolerant error = %v, want %v", err, transportErr)
		}
	}
}

func TestSessionExecutePassesReplyThrough(t *testing.T) {
	// Raw execution returns rejected replies verbatim.
	transport := &scriptedTransport{replies: map[string]string{"CIN,9999": "CIN,ERR"}}
	session := newTestSession(transport)

	reply, err := session.Execute(context.Background(), "CIN,9999")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if reply != "CIN,ERR" {
		t.Errorf("Execute reply = %q, want CIN,ERR", reply)
	}
}
