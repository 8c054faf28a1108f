package notification

import (
	"context"
	"errors"
)

// Fanout delivers a notice to every sink. A failing sink does not stop
// the others; errors are joined so the caller can surface one warning.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Notify(ctx context.Context, n Notice) (Receipt, error) {
	var (
		combined Receipt
		errs     []error
	)

	for _, sink := range f.sinks {
		receipt, err := sink.Notify(ctx, n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if receipt.Delivered {
			combined.Delivered = true
		}
		combined.ArtifactSize += receipt.ArtifactSize
	}

	return combined, errors.Join(errs...)
}
