package perf

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// RequestSpanPrefix names the spans opened around portal requests.
const RequestSpanPrefix = "modportal."

// RunDurations splits a run into time spent waiting on the portal and
// everything else.
type RunDurations struct {
	Total   time.Duration
	Network time.Duration
	Local   time.Duration
}

func GetRunDurations() (RunDurations, error) {
	spans, err := GetSpans()
	if err != nil {
		return RunDurations{}, err
	}
	return runDurationsFromSpans(spans)
}

func runDurationsFromSpans(spans []SpanSnapshot) (RunDurations, error) {
	total, err := totalDuration(spans)
	if err != nil {
		return RunDurations{}, err
	}

	network := mergeIntervals(requestIntervals(spans))
	local := total - network
	if local < 0 {
		local = 0
	}

	return RunDurations{Total: total, Network: network, Local: local}, nil
}

func totalDuration(spans []SpanSnapshot) (time.Duration, error) {
	var minStart time.Time
	var maxEnd time.Time

	for _, span := range spans {
		if !validSpan(span) {
			continue
		}
		if minStart.IsZero() || span.StartTime.Before(minStart) {
			minStart = span.StartTime
		}
		if maxEnd.IsZero() || maxEnd.Before(span.EndTime) {
			maxEnd = span.EndTime
		}
	}

	if minStart.IsZero() || maxEnd.IsZero() {
		return 0, errors.New("no spans with valid timestamps")
	}
	return maxEnd.Sub(minStart), nil
}

func requestIntervals(spans []SpanSnapshot) []timeInterval {
	intervals := make([]timeInterval, 0, len(spans))
	for _, span := range spans {
		if !validSpan(span) || !strings.HasPrefix(span.Name, RequestSpanPrefix) {
			continue
		}
		intervals = append(intervals, timeInterval{Start: span.StartTime, End: span.EndTime})
	}
	return intervals
}

func validSpan(span SpanSnapshot) bool {
	return !span.StartTime.IsZero() && !span.EndTime.IsZero() && !span.EndTime.Before(span.StartTime)
}

type timeInterval struct {
	Start time.Time
	End   time.Time
}

// mergeIntervals sums the union of the intervals so concurrent requests are
// not counted twice.
func mergeIntervals(intervals []timeInterval) time.Duration {
	if len(intervals) == 0 {
		return 0
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	total := time.Duration(0)
	current := intervals[0]
	for _, interval := range intervals[1:] {
		if interval.Start.After(current.End) {
			total += current.End.Sub(current.Start)
			current = interval
			continue
		}
		if current.End.Before(interval.End) {
			current.End = interval.End
		}
	}
	total += current.End.Sub(current.Start)

	return total
}
