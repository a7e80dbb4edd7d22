// internal/bc125/session.go
package bc125

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scanner-service/internal/protocol"
)

// Session drives SDO operations over an exclusively-owned transport. It
// owns the rejection check (the scanner answers a bad or out-of-mode
// command with ERR or NG) and nothing else: transport failures pass
// through unchanged, and all parsing belongs to the objects themselves.
type Session struct {
	transport protocol.Transport
	logger    *zap.Logger
}

// NewSession creates a session over an open transport.
func NewSession(transport protocol.Transport, logger *zap.Logger) *Session {
	return &Session{
		transport: transport,
		logger:    logger.With(zap.String("component", "session")),
	}
}

// Execute sends a raw command string and returns the raw reply. Used by
// the remote-shell endpoint; rejected replies are returned as-is.
func (s *Session) Execute(ctx context.Context, command string) (string, error) {
	return s.transport.Send(ctx, command)
}

// Fetch reads an object from the scanner: build the fetch command, send
// it, check for rejection, let the object parse the reply.
func (s *Session) Fetch(ctx context.Context, obj Fetcher, index ...int) error {
	command, err := obj.FetchCommand(index...)
	if err != nil {
		return err
	}
	reply, err := s.transport.Send(ctx, command)
	if err != nil {
		return err
	}
	if rejected(reply) {
		return fmt.Errorf("%w: %s", ErrCommandRejected, command)
	}
	return obj.ParseResponse(reply)
}

// Write programs an object to the scanner. The reply carries no payload;
// only the rejection check applies.
func (s *Session) Write(ctx context.Context, obj Writer, index ...int) error {
	command, err := obj.WriteCommand(index...)
	if err != nil {
		return err
	}
	reply, err := s.transport.Send(ctx, command)
	if err != nil {
		return err
	}
	if rejected(reply) {
		return fmt.Errorf("%w: %s", ErrCommandRejected, command)
	}
	return nil
}

// WriteTolerant programs an action and swallows a rejected reply. The
// unlock action relies on this: releasing program mode when the scanner
// is not in it is rejected but harmless, so issuing it twice in a row
// must not fail.
func (s *Session) WriteTolerant(ctx context.Context, obj Writer, index ...int) error {
	command, err := obj.WriteCommand(index...)
	if err != nil {
		return err
	}
	reply, err := s.transport.Send(ctx, command)
	if err != nil {
		return err
	}
	if rejected(reply) {
		s.logger.Debug("Tolerated rejected command",
			zap.String("command", command),
			zap.String("reply", reply),
		)
	}
	return nil
}

// rejected reports whether a reply is the scanner's error form.
func rejected(reply string) bool {
	return strings.HasSuffix(reply, "ERR") || strings.HasSuffix(reply, "NG")
}
