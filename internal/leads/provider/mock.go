// Package provider implements the raw lead metric sources.
package provider

import (
	"context"
	"crypto/md5"
	"encoding/binary"

	"lead_analyzer_backend/internal/scoring"
)

// mockOffsets maps each metric to the byte offset of its two-byte slice of
// the URL digest.
var mockOffsets = []struct {
	metric scoring.Metric
	offset int
}{
	{scoring.DealPotential, 0},
	{scoring.Practicality, 2},
	{scoring.Difficulty, 4},
	{scoring.Revenue, 6},
	{scoring.AIEase, 8},
}

const (
	mockFloor = 60
	mockSpan  = 30
)

// Mock derives stable metrics in [60, 89] from the MD5 digest of the URL,
// so the same lead always scores the same.
type Mock struct{}

// NewMock creates the deterministic provider.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Metrics(ctx context.Context, url string) (scoring.RawMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest := md5.Sum([]byte(url))
	raw := make(scoring.RawMetrics, len(mockOffsets))
	for _, o := range mockOffsets {
		v := binary.BigEndian.Uint16(digest[o.offset : o.offset+2])
		raw[string(o.metric)] = int(v)%mockSpan + mockFloor
	}
	return raw, nil
}
