package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	sessionsStartedTotal    atomic.Uint64
	sessionsCompletedTotal  atomic.Uint64
	questionsGeneratedTotal atomic.Uint64
	evaluationsTotal        atomic.Uint64
	evaluationsFailedTotal  atomic.Uint64
	notifyFailedTotal       atomic.Uint64

	notifyJobsReceivedTotal atomic.Uint64
	notifyJobsSentTotal     atomic.Uint64
	notifyJobsFailedTotal   atomic.Uint64
	notifyJobsDroppedTotal  atomic.Uint64

	evaluationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSessionStarted increments the sessions-started counter.
func IncSessionStarted() {
	sessionsStartedTotal.Add(1)
}

// IncSessionCompleted increments the sessions-completed counter.
func IncSessionCompleted() {
	sessionsCompletedTotal.Add(1)
}

// IncQuestionsGenerated increments the question-generation counter.
func IncQuestionsGenerated() {
	questionsGeneratedTotal.Add(1)
}

// IncEvaluation increments the completed-evaluations counter.
func IncEvaluation() {
	evaluationsTotal.Add(1)
}

// IncEvaluationFailed increments the failed-evaluations counter.
func IncEvaluationFailed() {
	evaluationsFailedTotal.Add(1)
}

// IncNotifyFailed increments the inline notification-failure counter.
func IncNotifyFailed() {
	notifyFailedTotal.Add(1)
}

// IncNotifyJobsReceived counts messages received by the notification worker.
func IncNotifyJobsReceived() {
	notifyJobsReceivedTotal.Add(1)
}

// IncNotifyJobsSent counts emails delivered by the notification worker.
func IncNotifyJobsSent() {
	notifyJobsSentTotal.Add(1)
}

// IncNotifyJobsFailed counts worker deliveries that failed.
func IncNotifyJobsFailed() {
	notifyJobsFailedTotal.Add(1)
}

// IncNotifyJobsDropped counts malformed worker messages deleted without delivery.
func IncNotifyJobsDropped() {
	notifyJobsDroppedTotal.Add(1)
}

// ObserveEvaluationDurationMs records an evaluation duration in milliseconds.
func ObserveEvaluationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	evaluationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "interview_sessions_started_total", "Total interview sessions started", sessionsStartedTotal.Load())
	writeCounter(&buf, "interview_sessions_completed_total", "Total interview sessions completed", sessionsCompletedTotal.Load())
	writeCounter(&buf, "stage_questions_generated_total", "Total stage question sets generated", questionsGeneratedTotal.Load())
	writeCounter(&buf, "stage_evaluations_total", "Total stage evaluations completed", evaluationsTotal.Load())
	writeCounter(&buf, "stage_evaluations_failed_total", "Total stage evaluations failed", evaluationsFailedTotal.Load())
	writeCounter(&buf, "notifications_failed_total", "Total inline notification dispatch failures", notifyFailedTotal.Load())
	writeCounter(&buf, "notification_jobs_received_total", "Total notification jobs received by the worker", notifyJobsReceivedTotal.Load())
	writeCounter(&buf, "notification_jobs_sent_total", "Total notification jobs delivered by the worker", notifyJobsSentTotal.Load())
	writeCounter(&buf, "notification_jobs_failed_total", "Total notification jobs the worker failed to deliver", notifyJobsFailedTotal.Load())
	writeCounter(&buf, "notification_jobs_dropped_total", "Total malformed notification jobs deleted without delivery", notifyJobsDroppedTotal.Load())
	writeHistogram(&buf, "stage_evaluation_duration_ms", "Stage evaluation duration in milliseconds", evaluationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
