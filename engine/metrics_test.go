package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	mbps, ok := Rate(50_000_000, 2*time.Second)
	assert.True(t, ok)
	assert.InDelta(t, 25.0, mbps, 1e-9)

	mbps, ok = Rate(1<<20, 500*time.Millisecond)
	assert.True(t, ok)
	assert.InDelta(t, 2.097152, mbps, 1e-9)

	for _, d := range []time.Duration{0, time.Nanosecond, MinMeasurable} {
		mbps, ok = Rate(1<<20, d)
		assert.False(t, ok, "elapsed %v", d)
		assert.Zero(t, mbps)
	}
}

func TestTotals_GrossAndNet(t *testing.T) {
	var tot Totals
	tot.add(PhaseLarge, 4_000_000, 2*time.Second)
	tot.add(PhaseLarge, 2_000_000, time.Second)
	tot.add(PhaseTopOff, 1_000_000, 3*time.Second)

	assert.Equal(t, 3, tot.Files)
	assert.Equal(t, int64(7_000_000), tot.GrossBytes)
	assert.Equal(t, 6*time.Second, tot.GrossTime)
	assert.Equal(t, int64(6_000_000), tot.NetBytes)
	assert.Equal(t, 3*time.Second, tot.NetTime)

	net, ok := tot.NetRate()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, net, 1e-9)

	gross, ok := tot.GrossRate()
	assert.True(t, ok)
	assert.InDelta(t, 7.0/6.0, gross, 1e-9)

	_, ok = Totals{}.NetRate()
	assert.False(t, ok)
}

func TestFileStat_Rate(t *testing.T) {
	s := FileStat{Bytes: 3_000_000, Elapsed: 1500 * time.Millisecond}
	mbps, ok := s.Rate()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, mbps, 1e-9)
}
