package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/biostreams/kgmeta/record"
	"github.com/biostreams/kgmeta/source"
)

// NATS publishes records as JSON envelopes on a single subject, in the
// wire format consumed by source.NATS. Finalize publishes the done
// envelope and flushes the connection.
type NATS struct {
	conn    *nats.Conn
	subject string
	ownConn bool
}

// NewNATS connects to the given NATS URL and prepares a sink publishing
// envelopes to subject.
func NewNATS(url, subject string) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("kgmeta-sink"))
	if err != nil {
		return nil, fmt.Errorf("sink: connect to NATS %s: %w", url, err)
	}
	return &NATS{conn: conn, subject: subject, ownConn: true}, nil
}

// NewNATSWithConn wraps an existing connection; Finalize leaves it open.
func NewNATSWithConn(conn *nats.Conn, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

// WriteNode implements Sink.
func (s *NATS) WriteNode(_ context.Context, n *record.Node) error {
	return s.publish(source.EnvelopeNode, n)
}

// WriteEdge implements Sink.
func (s *NATS) WriteEdge(_ context.Context, e *record.Edge) error {
	return s.publish(source.EnvelopeEdge, e)
}

func (s *NATS) publish(kind string, rec record.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sink: marshal %s record: %w", kind, err)
	}
	data, err := json.Marshal(source.Envelope{Kind: kind, Record: payload})
	if err != nil {
		return fmt.Errorf("sink: marshal envelope: %w", err)
	}
	return s.conn.Publish(s.subject, data)
}

// Close drops the connection without publishing the done envelope, so
// consumers see the stream as aborted rather than complete.
func (s *NATS) Close(_ context.Context) error {
	if s.ownConn {
		s.conn.Close()
	}
	return nil
}

// Finalize publishes the done envelope and flushes pending messages.
func (s *NATS) Finalize(_ context.Context) error {
	data, err := json.Marshal(source.Envelope{Done: true})
	if err != nil {
		return fmt.Errorf("sink: marshal done envelope: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("sink: publish done envelope: %w", err)
	}
	if err := s.conn.Flush(); err != nil {
		return fmt.Errorf("sink: flush: %w", err)
	}
	if s.ownConn {
		s.conn.Close()
	}
	return nil
}
