package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Pinger is satisfied by database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health is a point-in-time report of the process and its store.
type Health struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	Uptime       string `json:"uptime"`
	AllocMB      uint64 `json:"alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	DataDiskSize string `json:"data_disk_size"`
}

// Healthy reports whether every dependency answered.
func (h Health) Healthy() bool {
	return h.Status == "ok"
}

// Check collects memory stats, pings the store and sizes the data directory.
func Check(ctx context.Context, db Pinger, dataPath string, started time.Time) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := Health{
		Status:       "ok",
		Database:     "ok",
		Uptime:       time.Since(started).Round(time.Second).String(),
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: FormatBytes(dirSize(dataPath)),
	}

	if err := db.Ping(ctx); err != nil {
		h.Status = "degraded"
		h.Database = err.Error()
	}
	return h
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
