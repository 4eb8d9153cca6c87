package rag

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/logger"
)

// Observer receives one call per finished stage.
type Observer interface {
	Observe(ctx context.Context, stage string, start time.Time, err error)
}

// Observed reports every run of s to o under name.
func Observed[In, Out any](name string, s Stage[In, Out], o Observer) Stage[In, Out] {
	if o == nil {
		return s
	}
	return StageFunc[In, Out](func(ctx context.Context, in In) (Out, error) {
		start := time.Now()
		out, err := s.Run(ctx, in)
		o.Observe(ctx, name, start, err)
		return out, err
	})
}

// LogObserver logs stage outcomes with zap and records their duration.
// The request logger from the context wins over the fallback logger.
type LogObserver struct {
	logger   *zap.Logger
	duration *prometheus.HistogramVec
}

// NewLogObserver creates an observer. duration has labels "stage" and "status" and may be nil.
func NewLogObserver(fallback *zap.Logger, duration *prometheus.HistogramVec) *LogObserver {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &LogObserver{logger: fallback, duration: duration}
}

// Observe implements Observer.
func (o *LogObserver) Observe(ctx context.Context, stage string, start time.Time, err error) {
	elapsed := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	if o.duration != nil {
		o.duration.WithLabelValues(stage, status).Observe(elapsed.Seconds())
	}

	l := logger.FromContextOr(ctx, o.logger)
	if err != nil {
		l.Warn("Pipeline stage failed",
			zap.String("stage", stage),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return
	}
	l.Debug("Pipeline stage completed",
		zap.String("stage", stage),
		zap.Duration("duration", elapsed),
	)
}
