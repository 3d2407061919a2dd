package recorder

import (
	"time"

	"FwdProjector/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveDailyBars(_ string, _ []model.PriceBar) error { return nil }
func (n *NoopRecorder) LoadDailyBars(_ string) ([]model.PriceBar, time.Time, error) {
	return nil, time.Time{}, nil
}
func (n *NoopRecorder) RecordRun(_ *RunRecord) error { return nil }
func (n *NoopRecorder) Close() error                 { return nil }
