package rag

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
)

const loadKey = "corpus"

// KnowledgeBase lazily loads the corpus from its Source exactly once.
// Concurrent first loads share one Source call; once a non-empty corpus is
// published, further Load calls are no-ops. A failed or empty load leaves
// the base empty so a later call may try again.
type KnowledgeBase struct {
	source  Source
	logger  *logger.Logger
	metrics *metrics.Metrics

	group  singleflight.Group
	corpus atomic.Pointer[Corpus]
}

// NewKnowledgeBase creates an unloaded knowledge base. log and m may be nil.
func NewKnowledgeBase(source Source, log *logger.Logger, m *metrics.Metrics) *KnowledgeBase {
	return &KnowledgeBase{source: source, logger: log, metrics: m}
}

// Load populates the corpus if it is not populated yet and returns the
// current snapshot.
func (kb *KnowledgeBase) Load(ctx context.Context) (*Corpus, error) {
	if c := kb.corpus.Load(); !c.Empty() {
		return c, nil
	}
	if kb.source == nil {
		return nil, fmt.Errorf("%w: no corpus source configured", domerrors.ErrKnowledgeBaseUnavailable)
	}

	v, err, shared := kb.group.Do(loadKey, func() (any, error) {
		if c := kb.corpus.Load(); !c.Empty() {
			return c, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := kb.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		c := NewCorpus(entries)
		if !c.Empty() {
			kb.corpus.Store(c)
		}
		kb.metrics.SetCorpusEntries(c.Len())
		if kb.logger != nil {
			kb.logger.WithField("source", kb.source.Name()).
				Infof("Loaded %d knowledge entries", c.Len())
		}
		return c, nil
	})
	if shared {
		kb.metrics.RecordSingleflightDedup("rag")
	}
	if err != nil {
		if kb.logger != nil {
			kb.logger.WithError(err).WithField("source", kb.source.Name()).
				Error("Failed to load knowledge base")
		}
		return nil, err
	}
	return v.(*Corpus), nil
}

// Snapshot returns the published corpus, or nil before a successful load.
func (kb *KnowledgeBase) Snapshot() *Corpus {
	return kb.corpus.Load()
}

// Ready reports whether a non-empty corpus has been published.
func (kb *KnowledgeBase) Ready() bool {
	return !kb.Snapshot().Empty()
}
