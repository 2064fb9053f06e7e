package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

const (
	lokiPushPath      = "/loki/api/v1/push"
	defaultQueueSize  = 1024
	defaultBatchSize  = 100
	defaultFlushEvery = time.Second
)

type lokiEntry struct {
	ts    time.Time
	level string
	line  string
}

// LokiHook ships log entries to a Loki push endpoint. Fire never blocks the
// caller: entries are queued and pushed by a background goroutine. When the
// queue is full or the sink is unreachable the entry is dropped.
type LokiHook struct {
	url       string
	job       string
	client    *http.Client
	formatter logrus.Formatter

	queue      chan lokiEntry
	batchSize  int
	flushEvery time.Duration

	dropped atomic.Int64
	sent    atomic.Int64

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// LokiOption configures a LokiHook.
type LokiOption func(*LokiHook)

// WithQueueSize sets the number of entries buffered before dropping.
func WithQueueSize(n int) LokiOption {
	return func(h *LokiHook) {
		if n > 0 {
			h.queue = make(chan lokiEntry, n)
		}
	}
}

// WithBatchSize sets the max number of entries per push.
func WithBatchSize(n int) LokiOption {
	return func(h *LokiHook) {
		if n > 0 {
			h.batchSize = n
		}
	}
}

// WithFlushInterval sets how long entries may wait before being pushed.
func WithFlushInterval(d time.Duration) LokiOption {
	return func(h *LokiHook) {
		if d > 0 {
			h.flushEvery = d
		}
	}
}

// WithHTTPClient replaces the client used for pushes.
func WithHTTPClient(c *http.Client) LokiOption {
	return func(h *LokiHook) {
		if c != nil {
			h.client = c
		}
	}
}

// NewLokiHook starts the background pusher. baseURL is the Loki root, e.g.
// http://localhost:3100.
func NewLokiHook(baseURL, job string, opts ...LokiOption) *LokiHook {
	h := &LokiHook{
		url:        strings.TrimRight(baseURL, "/") + lokiPushPath,
		job:        job,
		client:     &http.Client{Timeout: 5 * time.Second},
		formatter:  &logrus.TextFormatter{DisableColors: true, DisableTimestamp: true},
		queue:      make(chan lokiEntry, defaultQueueSize),
		batchSize:  defaultBatchSize,
		flushEvery: defaultFlushEvery,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.run()
	return h
}

// Levels implements logrus.Hook.
func (h *LokiHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *LokiHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		h.dropped.Add(1)
		return nil
	}
	entry := lokiEntry{
		ts:    e.Time,
		level: e.Level.String(),
		line:  strings.TrimRight(string(line), "\n"),
	}
	select {
	case <-h.quit:
		h.dropped.Add(1)
	case h.queue <- entry:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// Dropped reports entries that never reached Loki.
func (h *LokiHook) Dropped() int64 { return h.dropped.Load() }

// Sent reports entries accepted by Loki.
func (h *LokiHook) Sent() int64 { return h.sent.Load() }

// Close stops accepting entries and pushes whatever is queued, bounded by ctx.
func (h *LokiHook) Close(ctx context.Context) error {
	h.closeOnce.Do(func() { close(h.quit) })
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "loki drain")
	}
}

func (h *LokiHook) run() {
	defer close(h.done)

	ticker := time.NewTicker(h.flushEvery)
	defer ticker.Stop()

	batch := make([]lokiEntry, 0, h.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		h.push(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-h.queue:
			batch = append(batch, e)
			if len(batch) >= h.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.quit:
			for {
				select {
				case e := <-h.queue:
					batch = append(batch, e)
					if len(batch) >= h.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

func (h *LokiHook) push(batch []lokiEntry) {
	byLevel := make(map[string]*lokiStream)
	var order []string
	for _, e := range batch {
		s, ok := byLevel[e.level]
		if !ok {
			s = &lokiStream{Stream: map[string]string{"job": h.job, "level": e.level}}
			byLevel[e.level] = s
			order = append(order, e.level)
		}
		s.Values = append(s.Values, [2]string{strconv.FormatInt(e.ts.UnixNano(), 10), e.line})
	}

	payload := lokiPush{Streams: make([]lokiStream, 0, len(order))}
	for _, lvl := range order {
		payload.Streams = append(payload.Streams, *byLevel[lvl])
	}

	if err := h.send(payload); err != nil {
		h.dropped.Add(int64(len(batch)))
		return
	}
	h.sent.Add(int64(len(batch)))
}

func (h *LokiHook) send(payload lokiPush) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal push")
	}
	resp, err := h.client.Post(h.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "post push")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.Errorf("loki returned %d", resp.StatusCode)
	}
	return nil
}
