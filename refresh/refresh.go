// Package refresh periodically re-probes persisted servers to keep
// player counts, the player sample set, and last-seen timestamps
// current.
package refresh

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-mclib/scanner/checker"
	"github.com/go-mclib/scanner/mcmetrics"
	"github.com/go-mclib/scanner/store"
)

// Interval is how often a full refresh pass runs.
const Interval = 5 * time.Minute

// ChunkSize bounds how many records are re-probed concurrently at once.
const ChunkSize = 100

// PerRecordTimeout bounds one record's re-probe.
const PerRecordTimeout = 5 * time.Second

// Loop runs Pass on a ticker until ctx is cancelled.
type Loop struct {
	Store store.Store
	Log   *zap.SugaredLogger
}

// Run blocks, invoking Pass every Interval, until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Pass(ctx)
		}
	}
}

// Pass fetches every persisted record, partitions it into ChunkSize
// chunks, and re-probes each chunk with bounded concurrency: the whole
// chunk is awaited before the next one starts.
func (l *Loop) Pass(ctx context.Context) {
	start := time.Now()
	defer func() { mcmetrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	records, err := l.Store.All(ctx)
	if err != nil {
		l.Log.Warnw("refresh: fetch all failed", "error", err)
		return
	}

	for _, chunk := range chunks(records, ChunkSize) {
		l.refreshChunk(ctx, chunk)
	}
}

// refreshChunk re-probes every record in chunk concurrently, waiting
// for all of them before returning: the whole chunk is awaited before
// the next one starts.
func (l *Loop) refreshChunk(ctx context.Context, chunk []store.ServerRecord) {
	var wg sync.WaitGroup
	for _, rec := range chunk {
		wg.Add(1)
		go func(rec store.ServerRecord) {
			defer wg.Done()
			l.refreshOne(ctx, rec)
		}(rec)
	}
	wg.Wait()
}

// refreshOne re-probes a single record's status and merges it. Errors
// are logged and skipped; they never abort the chunk.
func (l *Loop) refreshOne(ctx context.Context, rec store.ServerRecord) {
	ctx, cancel := context.WithTimeout(ctx, PerRecordTimeout)
	defer cancel()

	port, err := strconv.Atoi(rec.Port)
	if err != nil {
		l.Log.Warnw("refresh: invalid stored port", "ip", rec.IP, "port", rec.Port, "error", err)
		return
	}

	status, err := checker.Status(ctx, rec.IP, uint16(port))
	if err != nil {
		l.Log.Debugw("refresh: status probe failed", "ip", rec.IP, "error", err)
		return
	}

	samples := splitSamples(status.PlayersSample)
	if err := l.Store.Update(ctx, rec.IP, status, time.Now(), samples); err != nil {
		l.Log.Warnw("refresh: update failed", "ip", rec.IP, "error", err)
	}
}

// splitSamples best-effort splits a players.sample JSON array into its
// individual elements for the additive merge; a missing or malformed
// sample array yields no new entries rather than failing the refresh.
func splitSamples(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}

func chunks(records []store.ServerRecord, size int) [][]store.ServerRecord {
	if size <= 0 {
		return [][]store.ServerRecord{records}
	}
	var out [][]store.ServerRecord
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[i:end])
	}
	return out
}
