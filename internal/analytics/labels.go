// Package analytics turns HackPSU API data into chart-ready series.
package analytics

import (
	"slices"
	"strings"

	"github.com/hackpsu/admin-console/internal/model"
)

const (
	LabelUnknown   = "Unknown"
	LabelNotFilled = "Not-Filled"
)

// FormatLabel trims s, or returns "Unknown" when nothing is left.
func FormatLabel(s string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return LabelUnknown
}

// FormatMissingLabel is FormatLabel, except values whose lowercase form is
// listed in missing become "Not-Filled". Forms submit literal "none" or
// "null" for skipped questions.
func FormatMissingLabel(s string, missing ...string) string {
	label := FormatLabel(s)
	if label == LabelUnknown {
		return label
	}
	if slices.Contains(missing, strings.ToLower(label)) {
		return LabelNotFilled
	}
	return label
}

// NormalizeTimestamp converts numbers, numeric strings and date strings to
// Unix milliseconds; values below 1e12 are seconds.
func NormalizeTimestamp(v any) (int64, bool) {
	return model.NormalizeTimestamp(v)
}
