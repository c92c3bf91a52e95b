package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/nox-hq/riskboard/core/entity"
)

// BucketKey selects the granularity of a bucketed series.
type BucketKey string

// Supported bucket granularities.
const (
	// BucketHourOfDay folds points onto a fixed 24-hour axis.
	BucketHourOfDay BucketKey = "hour"
	// BucketDay produces one bucket per calendar day in the data range.
	BucketDay BucketKey = "day"
	// BucketMonth produces one bucket per calendar month in the data range.
	BucketMonth BucketKey = "month"
)

// maxBuckets bounds the length of ranged series; older buckets beyond the
// limit are dropped and the series is marked Truncated.
const maxBuckets = 2000

// Bucket holds the summed values for one slot of a series. Start is zero for
// hour-of-day buckets.
type Bucket struct {
	Label  string             `json:"label"`
	Start  time.Time          `json:"start,omitempty"`
	Values map[string]float64 `json:"values"`
}

// Series is a contiguous bucketed time series.
type Series struct {
	Key     BucketKey `json:"key"`
	Fields  []string  `json:"fields"`
	Buckets []Bucket  `json:"buckets"`
	// Truncated is set when points older than the first bucket were dropped.
	Truncated bool `json:"truncated,omitempty"`
}

// ParseBucketKey parses a bucket granularity name.
func ParseBucketKey(s string) (BucketKey, error) {
	switch BucketKey(s) {
	case BucketHourOfDay, BucketDay, BucketMonth:
		return BucketKey(s), nil
	}
	return "", fmt.Errorf("unknown bucket key %q (want hour, day or month)", s)
}

// BucketTimeSeries groups points by key, summing every numeric field per
// bucket. Buckets without data are kept with zero values so charts get a
// contiguous axis, and every bucket carries every field seen in the input.
// Times are bucketed in UTC. Points with a zero time are skipped.
//
// The hour-of-day axis always has 24 buckets. Day and month series span the
// first to the last point and are empty when no point has a time.
func BucketTimeSeries(points []entity.TimeSeriesPoint, key BucketKey) Series {
	fieldSet := make(map[string]struct{})
	var timed []entity.TimeSeriesPoint
	for _, p := range points {
		if p.Time.IsZero() {
			continue
		}
		timed = append(timed, p)
		for f := range p.Values {
			fieldSet[f] = struct{}{}
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for f := range fieldSet {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var buckets []Bucket
	var index func(time.Time) int
	truncated := false
	switch key {
	case BucketDay, BucketMonth:
		buckets, index, truncated = rangedBuckets(timed, key)
	default:
		key = BucketHourOfDay
		buckets = make([]Bucket, 24)
		for h := range buckets {
			buckets[h].Label = fmt.Sprintf("%02d:00", h)
		}
		index = func(t time.Time) int { return t.UTC().Hour() }
	}

	for i := range buckets {
		buckets[i].Values = make(map[string]float64, len(fields))
		for _, f := range fields {
			buckets[i].Values[f] = 0
		}
	}
	for _, p := range timed {
		i := index(p.Time)
		if i < 0 || i >= len(buckets) {
			continue
		}
		for f, v := range p.Values {
			buckets[i].Values[f] += v
		}
	}

	if buckets == nil {
		buckets = []Bucket{}
	}
	return Series{Key: key, Fields: fields, Buckets: buckets, Truncated: truncated}
}

// rangedBuckets builds the contiguous day or month axis covering points and
// an index function mapping a time to its bucket. The bool reports whether
// the axis was clipped to maxBuckets.
func rangedBuckets(points []entity.TimeSeriesPoint, key BucketKey) ([]Bucket, func(time.Time) int, bool) {
	if len(points) == 0 {
		return nil, func(time.Time) int { return -1 }, false
	}

	trunc, label := truncDay, "2006-01-02"
	step := func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }
	if key == BucketMonth {
		trunc, label = truncMonth, "2006-01"
		step = func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) }
	}

	first, last := trunc(points[0].Time), trunc(points[0].Time)
	for _, p := range points[1:] {
		t := trunc(p.Time)
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}

	truncated := false
	if floor := step(last, -(maxBuckets - 1)); first.Before(floor) {
		first, truncated = floor, true
	}

	var buckets []Bucket
	pos := make(map[int64]int)
	for t := first; !t.After(last); t = step(t, 1) {
		pos[t.Unix()] = len(buckets)
		buckets = append(buckets, Bucket{Label: t.Format(label), Start: t})
	}
	return buckets, func(t time.Time) int {
		if i, ok := pos[trunc(t).Unix()]; ok {
			return i
		}
		return -1
	}, truncated
}

func truncDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
