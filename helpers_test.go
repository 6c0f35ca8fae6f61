package linguist_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifei6671/linguist"
)

// recorder is a slog.Handler that keeps every record for assertions.
type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *recorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recorder) WithGroup(string) slog.Handler { return h }

// count returns how many records carry msg.
func (h *recorder) count(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

// attr returns the string value of key on the last record with msg.
func (h *recorder) attr(msg, key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out string
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				out = a.Value.String()
				return false
			}
			return true
		})
	}
	return out
}

// newRegistry builds a registry without bundled dictionaries and a recording
// logger.
func newRegistry(t *testing.T, opts ...linguist.Option) (*linguist.Registry, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]linguist.Option{
		linguist.WithoutBundled(),
		linguist.WithLogger(slog.New(rec)),
	}, opts...)
	reg, err := linguist.New(opts...)
	require.NoError(t, err)
	return reg, rec
}
