// Package timeslot converts between the half-hour time labels shown in
// schedule editors ("8:00 AM") and zero-based minute-of-day integers.
package timeslot

import (
	"strconv"
	"strings"
)

// EndOfDay is the minute value of a "12:00 AM" end boundary: an end time
// of midnight means "through midnight", not "at the start of the day".
const EndOfDay = 1440

var labels = generateLabels()
var labelSet = buildLabelSet()

// Labels returns the canonical ordered label list used by every schedule
// editor: 24 AM half-hour steps, 24 PM half-hour steps, then a trailing
// "12:00 AM" sentinel usable only as an end-of-day marker. 49 in total.
func Labels() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

func generateLabels() []string {
	var out []string
	for _, meridiem := range []string{"AM", "PM"} {
		for step := 0; step < 24; step++ {
			hour := step / 2
			if hour == 0 {
				hour = 12
			}
			minute := (step % 2) * 30
			out = append(out, strconv.Itoa(hour)+":"+pad(minute)+" "+meridiem)
		}
	}
	return append(out, "12:00 AM")
}

func buildLabelSet() map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

func pad(minute int) string {
	if minute < 10 {
		return "0" + strconv.Itoa(minute)
	}
	return strconv.Itoa(minute)
}

// Valid reports whether label is one of the canonical half-hour labels.
func Valid(label string) bool {
	return labelSet[label]
}

// ToMinutes parses a "<h>:<mm> AM|PM" label into a minute of day.
// Empty strings and the literal "None" mean "no boundary" and report
// ok=false, as does anything unparseable. With isEnd set, a computed
// midnight is coerced to EndOfDay rather than 0.
func ToMinutes(label string, isEnd bool) (int, bool) {
	if label == "" || label == "None" {
		return 0, false
	}

	fields := strings.Fields(label)
	if len(fields) != 2 {
		return 0, false
	}
	meridiem := fields[1]
	if meridiem != "AM" && meridiem != "PM" {
		return 0, false
	}

	clock := strings.Split(fields[0], ":")
	if len(clock) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(clock[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(clock[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}

	total := hour*60 + minute
	if isEnd && total == 0 {
		return EndOfDay, true
	}
	return total, true
}
