package auditlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pixil98/go-tycoon/internal/game"
)

const (
	KindPrices = "prices"
	KindEvent  = "event"
)

// Entry is one line of the audit trail.
type Entry struct {
	Game     string          `json:"game"`
	Kind     string          `json:"kind"`
	Recorded time.Time       `json:"recorded"`
	Data     json.RawMessage `json:"data"`
}

// Log publishes game notifications into the audit trail.
type Log struct {
	w *Writer
}

type LogOpt func(*Log)

// WithClock overrides the time used for entries and file rotation.
func WithClock(now func() time.Time) LogOpt {
	return func(l *Log) {
		l.w.now = now
	}
}

func NewLog(dir string, opts ...LogOpt) *Log {
	l := &Log{w: NewWriter(dir, "audit")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) PublishPrices(_ context.Context, gameID string, updates []game.PriceUpdate) error {
	return l.write(gameID, KindPrices, updates)
}

func (l *Log) PublishEvent(_ context.Context, gameID string, n game.EventNotification) error {
	return l.write(gameID, KindEvent, n)
}

func (l *Log) Close() error {
	return l.w.Close()
}

// Entries reads back every entry of gameID written so far. The current file is
// sealed first so its last frame is complete; the next write reopens it.
func (l *Log) Entries(gameID string) ([]Entry, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()

	if err := l.w.closeLocked(); err != nil {
		return nil, fmt.Errorf("sealing audit file: %w", err)
	}
	return ReadDir(l.w.baseDir, gameID)
}

func (l *Log) write(gameID, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s entry: %w", kind, err)
	}
	return l.w.Write(Entry{
		Game:     gameID,
		Kind:     kind,
		Recorded: l.w.now().UTC(),
		Data:     data,
	})
}

// ReadFile decodes every entry of one audit file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []Entry
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s: decoding entry %d: %w", path, len(out)+1, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ReadDir decodes every audit file in dir in chronological order, keeping
// only the entries of gameID. An empty gameID keeps everything.
func ReadDir(dir, gameID string) ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "audit-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	var out []Entry
	for _, p := range paths {
		entries, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if gameID == "" || e.Game == gameID {
				out = append(out, e)
			}
		}
	}
	return out, nil
}
