package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer
var spanRecorder *SpanRecorder
var outputDir string

// SpanRecorder records finished spans for the performance report.
type SpanRecorder struct {
	spans []spanRecord
}

type spanRecord struct {
	Name     string
	Duration time.Duration
	Start    time.Time
	End      time.Time
}

type SpanInfo struct {
	Name       string  `json:"name"`
	DurationMs float64 `json:"durationMs"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
}

type PerformanceReport struct {
	Spans           []SpanInfo `json:"spans"`
	TotalDurationMs float64    `json:"totalDurationMs"`
	Timestamp       string     `json:"timestamp"`
}

// InitTracer initializes OpenTelemetry tracing
func InitTracer(serviceName string, enabled bool, outDir string) (func(), error) {
	if !enabled {
		// Return no-op shutdown
		return func() {}, nil
	}

	spanRecorder = &SpanRecorder{spans: make([]spanRecord, 0)}
	outputDir = outDir

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(&recordingSpanProcessor{recorder: spanRecorder}),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("release-updatez")

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Silently fail
		_ = tp.Shutdown(ctx)
		_ = ExportReport()
	}

	return shutdown, nil
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name)
}

// recordingSpanProcessor records spans for the exported report
type recordingSpanProcessor struct {
	recorder *SpanRecorder
}

func (p *recordingSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (p *recordingSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.recorder != nil {
		p.recorder.spans = append(p.recorder.spans, spanRecord{
			Name:     s.Name(),
			Duration: s.EndTime().Sub(s.StartTime()),
			Start:    s.StartTime(),
			End:      s.EndTime(),
		})
	}
}

func (p *recordingSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *recordingSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// ExportReport exports the performance report to a JSON file, slowest span
// first to match the run's ranked timing table.
func ExportReport() error {
	if spanRecorder == nil || len(spanRecorder.spans) == 0 || outputDir == "" {
		return nil
	}

	records := make([]spanRecord, len(spanRecorder.spans))
	copy(records, spanRecorder.spans)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Duration > records[j].Duration
	})

	totalDurationMs := 0.0
	spans := make([]SpanInfo, 0, len(records))
	for _, record := range records {
		durationMs := float64(record.Duration.Microseconds()) / 1000.0
		totalDurationMs += durationMs
		spans = append(spans, SpanInfo{
			Name:       record.Name,
			DurationMs: durationMs,
			Start:      record.Start.Format(time.RFC3339Nano),
			End:        record.End.Format(time.RFC3339Nano),
		})
	}

	report := PerformanceReport{
		Spans:           spans,
		TotalDurationMs: totalDurationMs,
		Timestamp:       time.Now().Format(time.RFC3339Nano),
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reportPath := filepath.Join(outputDir, "performance-report.json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
