package sink

import "context"

// Sink receives one formatted line per completed issuance. Writes are
// fire-and-forget from the session's point of view: a failed write never
// rolls back a fulfilled session.
type Sink interface {
	Record(ctx context.Context, line string) error
}

// ArtifactLocator answers whether the downstream artifact for a card (its
// line in an externally supplied batch file) exists yet. Best effort by
// contract; a found/not-found answer is all callers may rely on.
type ArtifactLocator interface {
	Find(ctx context.Context, cardNumber string) (bool, error)
}

// Multi fans a line out to several sinks. Every sink gets the write; the
// first error is reported after all writes were attempted.
type Multi []Sink

func (m Multi) Record(ctx context.Context, line string) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, line); err != nil && first == nil {
			first = err
		}
	}
	return first
}
