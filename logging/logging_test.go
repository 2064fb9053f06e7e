package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lokiSink struct {
	mu      sync.Mutex
	pushes  []lokiPush
	status  int
	entries int
}

func (s *lokiSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != lokiPushPath {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var p lokiPush
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.pushes = append(s.pushes, p)
	for _, st := range p.Streams {
		s.entries += len(st.Values)
	}
	status := s.status
	s.mu.Unlock()
	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func (s *lokiSink) snapshot() ([]lokiPush, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]lokiPush(nil), s.pushes...), s.entries
}

func TestNew_DefaultsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, hook, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)
	assert.Nil(t, hook)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.WithField("route", "/products").Warn("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "/products", line["route"])
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_AttachesLokiHook(t *testing.T) {
	sink := &lokiSink{}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	var buf bytes.Buffer
	logger, hook, err := New(Config{LokiURL: srv.URL, LokiJob: "express", Output: &buf})
	require.NoError(t, err)
	require.NotNil(t, hook)

	logger.Info("GET /products 200")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, hook.Close(ctx))

	pushes, n := sink.snapshot()
	require.Equal(t, 1, n)
	stream := pushes[0].Streams[0]
	assert.Equal(t, map[string]string{"job": "express", "level": "info"}, stream.Stream)
	assert.Contains(t, stream.Values[0][1], "GET /products 200")
}

func TestLokiHook_BatchesAndGroupsByLevel(t *testing.T) {
	sink := &lokiSink{}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	hook := NewLokiHook(srv.URL+"/", "shop", WithBatchSize(3), WithFlushInterval(time.Hour))
	logger, _ := newNullLogger()
	logger.AddHook(hook)

	logger.Info("one")
	logger.Error("two")
	logger.Info("three")

	require.Eventually(t, func() bool {
		_, n := sink.snapshot()
		return n == 3
	}, 5*time.Second, 10*time.Millisecond)

	pushes, _ := sink.snapshot()
	require.Len(t, pushes, 1)
	require.Len(t, pushes[0].Streams, 2)
	assert.Equal(t, "info", pushes[0].Streams[0].Stream["level"])
	assert.Len(t, pushes[0].Streams[0].Values, 2)
	assert.Equal(t, "error", pushes[0].Streams[1].Stream["level"])

	require.NoError(t, hook.Close(context.Background()))
	assert.Equal(t, int64(3), hook.Sent())
	assert.Zero(t, hook.Dropped())
}

func TestLokiHook_SinkErrorDrops(t *testing.T) {
	sink := &lokiSink{status: http.StatusInternalServerError}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	hook := NewLokiHook(srv.URL, "shop", WithFlushInterval(time.Hour))
	logger, _ := newNullLogger()
	logger.AddHook(hook)

	logger.Warn("lost")
	require.NoError(t, hook.Close(context.Background()))

	assert.Equal(t, int64(1), hook.Dropped())
	assert.Zero(t, hook.Sent())
}

func TestLokiHook_UnreachableNeverBlocks(t *testing.T) {
	hook := NewLokiHook("http://127.0.0.1:1", "shop",
		WithQueueSize(1),
		WithFlushInterval(time.Hour),
		WithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}),
	)
	logger, _ := newNullLogger()
	logger.AddHook(hook)

	start := time.Now()
	for i := 0; i < 50; i++ {
		logger.Info("spam")
	}
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, hook.Close(ctx))
	assert.Equal(t, int64(50), hook.Dropped()+hook.Sent())
	assert.Zero(t, hook.Sent())
}

func TestLokiHook_CloseIdempotent(t *testing.T) {
	hook := NewLokiHook("http://127.0.0.1:1", "shop")
	require.NoError(t, hook.Close(context.Background()))
	require.NoError(t, hook.Close(context.Background()))
}

func newNullLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	return l, &buf
}
