// Package utils provides common utility functions for the market data fetcher.
//
// This file contains the interval-tag conversion used to derive candle end
// times. Interval tags follow the exchange's kline notation (e.g. "1m",
// "4h", "1d") and map to fixed durations.
package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownInterval indicates an interval tag outside the recognized set.
var ErrUnknownInterval = errors.New("unknown interval")

// intervalUnits maps the interval suffix to the duration of one unit.
// Calendar units with a variable length (months) are deliberately absent;
// a candle end time can only be derived from a fixed duration.
var intervalUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

// IntervalDuration converts an exchange interval tag into a duration.
//
// The tag consists of a positive integer count followed by a unit suffix:
// "s" (seconds), "m" (minutes), "h" (hours), "d" (days), "w" (weeks).
// For example "1h" yields one hour and "1d" yields 24 hours.
//
// Unrecognized tags are a fatal input error: a candle series cannot be
// keyed by end time without a known bar duration.
func IntervalDuration(tag string) (time.Duration, error) {
	if len(tag) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterval, tag)
	}

	unit, ok := intervalUnits[tag[len(tag)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterval, tag)
	}

	n, err := strconv.Atoi(tag[:len(tag)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterval, tag)
	}

	return time.Duration(n) * unit, nil
}
