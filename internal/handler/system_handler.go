package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	metricsInterval = 7 * time.Second
	checkTimeout    = 2 * time.Second
)

// HealthCheck checks one dependency. A failing Optional check reports
// "degraded" instead of failing the health check.
type HealthCheck struct {
	Name     string
	Optional bool
	Run      func(ctx context.Context) error
}

// SystemStats reports console internals for the live system panel.
type SystemStats struct {
	AuditQueueLength func(ctx context.Context) (int64, error)
	WSClients        func() int
}

// SystemHandler serves the health endpoint and streams runtime stats via SSE.
type SystemHandler struct {
	checks    []HealthCheck
	stats     SystemStats
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(checks []HealthCheck, stats SystemStats, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		stats:     stats,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// 200 when every required dependency answers, 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	results := make([]string, len(h.checks))
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	var g errgroup.Group
	for i, check := range h.checks {
		g.Go(func() error {
			if err := check.Run(ctx); err != nil {
				h.log.Warn().Err(err).Str("check", check.Name).Msg("Health check failed")
				results[i] = "down"
				return nil
			}
			results[i] = "up"
			return nil
		})
	}
	_ = g.Wait()

	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for i, check := range h.checks {
		deps[check.Name] = results[i]
		if results[i] == "up" {
			continue
		}
		if check.Optional {
			if status == "ok" {
				status = "degraded"
			}
			continue
		}
		status, code = "down", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"dependencies": deps,
		"uptime":       formatDuration(time.Since(h.startTime)),
	})
}

type systemMetrics struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	MemUsedBytes  uint64  `json:"mem_used_bytes"`
	MemTotalBytes uint64  `json:"mem_total_bytes"`
	MemPercent    float64 `json:"mem_percent"`
	LoadAvg1      float64 `json:"load_avg_1"`
	LoadAvg5      float64 `json:"load_avg_5"`
	LoadAvg15     float64 `json:"load_avg_15"`

	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	NumGC       uint32 `json:"num_gc"`
	AppRSSBytes uint64 `json:"app_rss_bytes"`
	GoVersion   string `json:"go_version"`

	AuditQueue int64 `json:"audit_queue"`
	WSClients  int   `json:"ws_clients"`
}

// SystemMetricsSSE godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) SystemMetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	h.writeMetrics(c)
	for {
		select {
		case <-reqCtx.Done():
			return
		case <-ticker.C:
			h.writeMetrics(c)
		}
	}
}

func (h *SystemHandler) writeMetrics(c *gin.Context) {
	data, err := json.Marshal(h.collect(c.Request.Context()))
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

func (h *SystemHandler) collect(ctx context.Context) systemMetrics {
	m := systemMetrics{
		Timestamp: time.Now().Unix(),
		Uptime:    formatDuration(time.Since(h.startTime)),
		GoVersion: runtime.Version(),
	}

	if total, avail, err := readMemInfo(); err == nil && total > 0 {
		m.MemTotalBytes = total
		m.MemUsedBytes = total - avail
		m.MemPercent = float64(m.MemUsedBytes) / float64(total) * 100
	}
	m.LoadAvg1, m.LoadAvg5, m.LoadAvg15, _ = readLoadAvg()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.Goroutines = runtime.NumGoroutine()
	m.HeapAlloc = ms.HeapAlloc
	m.NumGC = ms.NumGC
	m.AppRSSBytes, _ = readProcessRSS()

	if h.stats.AuditQueueLength != nil {
		m.AuditQueue, _ = h.stats.AuditQueueLength(ctx)
	}
	if h.stats.WSClients != nil {
		m.WSClients = h.stats.WSClients()
	}
	return m
}

// readMemInfo returns MemTotal and MemAvailable from /proc/meminfo.
func readMemInfo() (total, available uint64, err error) {
	err = scanProc("/proc/meminfo", func(line string) bool {
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total = kbField(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			available = kbField(line)
		}
		return total == 0 || available == 0
	})
	return total, available, err
}

// readProcessRSS returns VmRSS from /proc/self/status.
func readProcessRSS() (rss uint64, err error) {
	err = scanProc("/proc/self/status", func(line string) bool {
		if strings.HasPrefix(line, "VmRSS:") {
			rss = kbField(line)
			return false
		}
		return true
	})
	return rss, err
}

func readLoadAvg() (load1, load5, load15 float64, err error) {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, 0, 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("unexpected /proc/loadavg format")
	}
	load1, _ = strconv.ParseFloat(fields[0], 64)
	load5, _ = strconv.ParseFloat(fields[1], 64)
	load15, _ = strconv.ParseFloat(fields[2], 64)
	return load1, load5, load15, nil
}

// scanProc feeds lines to fn until it returns false.
func scanProc(path string, fn func(line string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if !fn(scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}

// kbField parses lines like "MemTotal:  16384000 kB" into bytes.
func kbField(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	val, _ := strconv.ParseUint(fields[1], 10, 64)
	return val * 1024
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
