package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Span traces a method call within the New Relic transaction carried by the
// context. A nil *Span is valid and does nothing.
type Span struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// StartSpan starts a "<component> <method>" segment.
func StartSpan(ctx context.Context, component, method string) *Span {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}
	return &Span{
		txn: txn,
		seg: txn.StartSegment(component + " " + method),
	}
}

func (s *Span) AddAttribute(key string, value interface{}) {
	if s != nil {
		s.seg.AddAttribute(key, value)
	}
}

// End closes the segment, noticing err on the transaction if set.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.txn.NoticeError(err)
	}
	s.seg.End()
}
