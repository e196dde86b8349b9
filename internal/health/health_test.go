package health

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docxology/nockit/internal/supervisor"
	"github.com/docxology/nockit/internal/sysprobe"
)

func baseInput() Input {
	return Input{
		System: sysprobe.Sample{
			CPUPercent:    10,
			MemoryPercent: 20,
			DiskPercent:   30,
			ProcessCount:  100,
		},
		Process:       supervisor.Status{State: supervisor.StateRunning},
		ExpectedToRun: true,
		PeerCount:     10,
	}
}

func TestAggregateHealthyBaseline(t *testing.T) {
	report := Aggregate(baseInput())
	require.Equal(t, StatusHealthy, report.Overall)
	require.Equal(t, StatusHealthy, report.Nockchain.Status)
}

func TestAggregateWarningThresholds(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Input)
	}{
		{"memory", func(in *Input) { in.System.MemoryPercent = 80 }},
		{"cpu", func(in *Input) { in.System.CPUPercent = 80 }},
		{"disk", func(in *Input) { in.System.DiskPercent = 85 }},
		{"errors", func(in *Input) { in.ErrorsLastHour = 11 }},
		{"peers", func(in *Input) { in.PeerCount = 2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.modify(&in)
			report := Aggregate(in)
			require.Equal(t, StatusWarning, report.Overall)
		})
	}
}

func TestAggregateCriticalThresholds(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Input)
	}{
		{"memory", func(in *Input) { in.System.MemoryPercent = 95 }},
		{"disk", func(in *Input) { in.System.DiskPercent = 95 }},
		{"errors", func(in *Input) { in.ErrorsLastHour = 101 }},
		{"not_running", func(in *Input) { in.Process.State = supervisor.StateStopped }},
		{"crashed", func(in *Input) { in.Process.State = supervisor.StateCrashed }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.modify(&in)
			report := Aggregate(in)
			require.Equal(t, StatusCritical, report.Overall)
		})
	}
}

func TestAggregateUnknownOnSampleFailure(t *testing.T) {
	in := baseInput()
	in.SampleFailed = true
	report := Aggregate(in)
	require.Equal(t, StatusUnknown, report.Overall)
}

func TestAggregateIsMonotoneInMemoryAndErrors(t *testing.T) {
	rank := map[Status]int{StatusHealthy: 0, StatusWarning: 1, StatusCritical: 2, StatusUnknown: -1}

	memSteps := []float64{10, 50, 80, 90, 95, 99}
	prevRank := -1
	for _, mem := range memSteps {
		in := baseInput()
		in.System.MemoryPercent = mem
		report := Aggregate(in)
		r := rank[report.Overall]
		require.GreaterOrEqual(t, r, prevRank)
		prevRank = r
	}

	errorSteps := []uint64{0, 5, 11, 50, 101, 500}
	prevRank = -1
	for _, errs := range errorSteps {
		in := baseInput()
		in.ErrorsLastHour = errs
		report := Aggregate(in)
		r := rank[report.Overall]
		require.GreaterOrEqual(t, r, prevRank)
		prevRank = r
	}
}

func TestAggregateNotRunningWhenNotExpectedIsNotCritical(t *testing.T) {
	in := baseInput()
	in.Process.State = supervisor.StateStopped
	in.ExpectedToRun = false
	report := Aggregate(in)
	require.NotEqual(t, StatusCritical, report.Overall)
}
