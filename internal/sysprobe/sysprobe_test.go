package sysprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleNeverPanicsAndReportsPlausibleRanges(t *testing.T) {
	p := New("/")
	sample := p.Sample(context.Background())

	if sample.MemoryPercent != Unknown {
		require.GreaterOrEqual(t, sample.MemoryPercent, 0.0)
		require.LessOrEqual(t, sample.MemoryPercent, 100.0)
	}
	if sample.DiskPercent != Unknown {
		require.GreaterOrEqual(t, sample.DiskPercent, 0.0)
		require.LessOrEqual(t, sample.DiskPercent, 100.0)
	}
	if sample.ProcessCount != Unknown {
		require.Greater(t, sample.ProcessCount, 0)
	}
}

func TestSampleDefaultsDiskPathToRoot(t *testing.T) {
	p := New("")
	require.Equal(t, "/", p.DiskPath)
}
