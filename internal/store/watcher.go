package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Snapshot re-reads the full result set a live subscription exposes.
// Sorting and filtering live inside the snapshot query, so the emitted
// value is always freshly ordered.
type Snapshot[T any] func(ctx context.Context) (T, error)

// Watcher turns a change stream on one collection into a live query:
// every store-side change triggers a re-run of the snapshot and one
// callback delivery with the complete result. A transport error clears
// the view (callback with the zero snapshot) and ends the watch; the
// caller resubscribes.
type Watcher[T any] struct {
	col      *mongo.Collection
	snapshot Snapshot[T]
	onChange func(T)
	log      *zap.SugaredLogger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewWatcher[T any](col *mongo.Collection, snap Snapshot[T], onChange func(T), log *zap.SugaredLogger) *Watcher[T] {
	return &Watcher[T]{col: col, snapshot: snap, onChange: onChange, log: log, done: make(chan struct{})}
}

// Start emits one initial snapshot, then re-emits on every change event.
func (w *Watcher[T]) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	cs, err := w.col.Watch(ctx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		w.cancel()
		close(w.done)
		return err
	}

	w.emit(ctx)

	go func() {
		defer close(w.done)
		defer cs.Close(context.Background())
		for cs.Next(ctx) {
			w.emit(ctx)
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			w.log.Errorw("change stream failed, clearing view", "collection", w.col.Name(), "err", err)
			var zero T
			w.onChange(zero)
		}
	}()
	return nil
}

func (w *Watcher[T]) emit(ctx context.Context) {
	snap, err := w.snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Errorw("snapshot query failed, clearing view", "collection", w.col.Name(), "err", err)
		var zero T
		w.onChange(zero)
		return
	}
	w.onChange(snap)
}

// Close releases the underlying stream; no callbacks fire afterwards.
func (w *Watcher[T]) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.done
}
