// MongoDB sink for the logger package.
//
// MongoHandler is an slog.Handler that stores log records in a MongoDB
// collection without touching the request path:
//
//   - Records are enqueued into a buffered channel (non-blocking).
//   - One background goroutine drains the channel and calls InsertMany
//     in batches of up to mongoBatchSize.
//   - If the channel is full the record is dropped.
//   - Failed inserts are reported on stderr.
//   - Close flushes what is queued. The collection's client is owned by the
//     caller (pkg/database) and is not disconnected here.

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// LogDocument is the shape written to MongoDB.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// sink is shared by every handler derived through WithAttrs/WithGroup.
type sink struct {
	col    *mongo.Collection
	queue  chan LogDocument
	errOut io.Writer
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// MongoHandler is a slog.Handler that writes to MongoDB asynchronously.
type MongoHandler struct {
	sink   *sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewMongoHandler starts the drain loop for col. The caller must call Close.
func NewMongoHandler(ctx context.Context, col *mongo.Collection, level slog.Leveler) *MongoHandler {
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "time", Value: -1}},
		Options: options.Index().SetName("time_desc"),
	})

	s := &sink{
		col:    col,
		queue:  make(chan LogDocument, mongoQueueSize),
		errOut: os.Stderr,
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drainLoop()

	if level == nil {
		level = slog.LevelInfo
	}
	return &MongoHandler{sink: s, level: level}
}

// ─── slog.Handler interface ───────────────────────────────────────────────────

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}

	for _, a := range h.attrs {
		collect(&doc, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(&doc, prefix, a)
		return true
	})

	select {
	case h.sink.queue <- doc:
	default:
	}
	return nil
}

// collect stores a under prefix, flattening groups into dotted keys.
func collect(doc *LogDocument, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "request_id" && v.Kind() != slog.KindGroup {
		doc.RequestID = v.String()
		return
	}
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			collect(doc, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	doc.Attrs[prefix+a.Key] = storable(v)
}

// storable returns a value BSON can encode without losing its text. Errors
// would otherwise marshal as empty documents.
func storable(v slog.Value) any {
	if v.Kind() != slog.KindAny {
		return v.Any()
	}
	switch x := v.Any().(type) {
	case nil:
		return nil
	case error:
		return x.Error()
	default:
		if _, _, err := bson.MarshalValue(x); err == nil {
			return x
		}
		if s, ok := x.(fmt.Stringer); ok {
			return s.String()
		}
		return v.String()
	}
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Attrs keep the groups open at the time they were added.
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &MongoHandler{sink: h.sink, level: h.level, attrs: newAttrs, groups: h.groups}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, 0, len(h.groups)+1)
	newGroups = append(newGroups, h.groups...)
	newGroups = append(newGroups, name)
	return &MongoHandler{sink: h.sink, level: h.level, attrs: h.attrs, groups: newGroups}
}

// Close flushes pending records and stops the drain loop. Safe to call more
// than once.
func (h *MongoHandler) Close() {
	h.sink.once.Do(func() { close(h.sink.done) })
	h.sink.wg.Wait()
}

// ─── Internals ────────────────────────────────────────────────────────────────

func (s *sink) drainLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.col.InsertMany(ctx, batch); err != nil {
			fmt.Fprintf(s.errOut, "logger: mongo insert of %d records failed: %v\n", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-s.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for len(s.queue) > 0 {
				batch = append(batch, <-s.queue)
				if len(batch) >= mongoBatchSize {
					flush()
				}
			}
			flush()
			return
		}
	}
}

// ─── Multi-handler fan-out ─────────────────────────────────────────────────────

// MultiHandler fans out to multiple slog.Handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler that sends each record to all hs.
func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}
