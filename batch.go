package lazyjson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/biggeezerdevelopment/lazyjson/internal/options"
)

type batchConfig struct {
	workers    int
	parserOpts []ParserOption
	logger     *slog.Logger
}

// ParseBatch parses every document on a pool of workers and calls fn with
// each result. fn runs concurrently and must not keep doc after it returns.
// Documents are not started once ctx is done. The returned error joins the
// failures in document order.
func ParseBatch(ctx context.Context, docs [][]byte, fn func(i int, doc *Document) error, opts ...BatchOption) error {
	cfg := batchConfig{logger: discardLogger}
	if err := options.Apply(&cfg, opts...); err != nil {
		return wrapErr("ParseBatch", err)
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	// Reject bad parser options before any work is queued.
	first, err := NewParser(cfg.parserOpts...)
	if err != nil {
		return wrapErr("ParseBatch", err)
	}
	parsers := sync.Pool{
		New: func() interface{} {
			p, _ := NewParser(cfg.parserOpts...)
			return p
		},
	}
	parsers.Put(first)

	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		return wrapErr("ParseBatch", err)
	}
	defer pool.Release()

	failures := make([]error, len(docs))
	var wg sync.WaitGroup
	for i, data := range docs {
		if err := ctx.Err(); err != nil {
			failures[i] = err
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return
			}
			p := parsers.Get().(*Parser)
			defer parsers.Put(p)

			doc, err := p.Parse(data)
			if err == nil {
				err = fn(i, doc)
			}
			if err != nil {
				cfg.logger.Debug("lazyjson: batch document failed", "index", i, "error", err)
				failures[i] = fmt.Errorf("document %d: %w", i, err)
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			failures[i] = wrapErr("ParseBatch", err)
			break
		}
	}
	wg.Wait()
	return errors.Join(failures...)
}

// UnmarshalBatch decodes docs[i] into newValue(i), which must return a
// non-nil pointer.
func UnmarshalBatch(ctx context.Context, docs [][]byte, newValue func(i int) any, opts ...BatchOption) error {
	return ParseBatch(ctx, docs, func(i int, doc *Document) error {
		return doc.Decode(newValue(i))
	}, opts...)
}
