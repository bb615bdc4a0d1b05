package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/biostreams/kgmeta/record"
)

// Envelope is the wire form of one record on a NATS stream: the kind
// discriminator plus the raw record payload. A Done envelope marks the
// end of the stream.
type Envelope struct {
	Kind   string          `json:"kind"`
	Record json.RawMessage `json:"record,omitempty"`
	Done   bool            `json:"done,omitempty"`
}

// Envelope kind discriminators.
const (
	EnvelopeNode = "node"
	EnvelopeEdge = "edge"
)

// NATS streams records published as JSON envelopes on a single subject,
// terminated by a done envelope. The publisher is responsible for sending
// all node envelopes before any edge envelope; node envelopes arriving
// after the first edge are dropped with a warning.
type NATS struct {
	*Base
	conn    *nats.Conn
	subject string
	ownConn bool
}

// NewNATS connects to the given NATS URL and prepares a source reading
// envelopes from subject.
func NewNATS(base *Base, url, subject string) (*NATS, error) {
	if base == nil {
		base = NewBase()
	}
	conn, err := nats.Connect(url, nats.Name("kgmeta-source"))
	if err != nil {
		return nil, fmt.Errorf("source: connect to NATS %s: %w", url, err)
	}
	return &NATS{Base: base, conn: conn, subject: subject, ownConn: true}, nil
}

// NewNATSWithConn wraps an existing connection; Close leaves it open.
func NewNATSWithConn(base *Base, conn *nats.Conn, subject string) *NATS {
	if base == nil {
		base = NewBase()
	}
	return &NATS{Base: base, conn: conn, subject: subject}
}

// Read implements Source. It blocks until the done envelope arrives or
// ctx is cancelled.
func (s *NATS) Read(ctx context.Context, yield func(record.Record) bool) error {
	sub, err := s.conn.SubscribeSync(s.subject)
	if err != nil {
		return fmt.Errorf("source: subscribe %s: %w", s.subject, err)
	}
	defer sub.Unsubscribe()

	edgesSeen := false
	for {
		msg, err := sub.NextMsgWithContext(ctx)
		if err != nil {
			return fmt.Errorf("source: receive on %s: %w", s.subject, err)
		}
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return fmt.Errorf("source: bad envelope on %s: %w", s.subject, err)
		}
		if env.Done {
			return nil
		}
		var rec record.Record
		switch env.Kind {
		case EnvelopeNode:
			if edgesSeen {
				s.logger.Warn("node envelope received after edges, dropping", "subject", s.subject)
				continue
			}
			var n record.Node
			if err := json.Unmarshal(env.Record, &n); err != nil {
				return fmt.Errorf("source: bad node envelope: %w", err)
			}
			rec = &n
		case EnvelopeEdge:
			edgesSeen = true
			var e record.Edge
			if err := json.Unmarshal(env.Record, &e); err != nil {
				return fmt.Errorf("source: bad edge envelope: %w", err)
			}
			rec = &e
		default:
			return fmt.Errorf("source: unexpected envelope kind %q", env.Kind)
		}
		admitted, err := s.prepare(rec)
		if err != nil {
			return err
		}
		if admitted && !yield(rec) {
			return nil
		}
	}
}

// Close drains and closes the connection when this source owns it.
func (s *NATS) Close() error {
	if s.ownConn && s.conn != nil {
		s.conn.Close()
	}
	return nil
}
