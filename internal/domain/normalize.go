package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// PayloadObservation is a single reading inside a nested station payload.
// A nil Value means the sensor reported nothing for this element.
type PayloadObservation struct {
	ElementID  string   `json:"elementId"`
	Value      *float64 `json:"value"`
	Unit       string   `json:"unit"`
	TimeOffset string   `json:"timeOffset"`
}

// StationPayload is the nested per-station record returned by the
// observations endpoint: one reference time carrying several readings.
type StationPayload struct {
	SourceID      string               `json:"sourceId"`
	ReferenceTime string               `json:"referenceTime"`
	Observations  []PayloadObservation `json:"observations"`
}

// FlattenPayloads converts nested station payloads into flat raw
// records. Each reading's timestamp is the payload reference time
// shifted by its ISO-8601 time offset ("PT6H" = six hours later).
// Offsets that fail to parse leave the reference time unshifted; the
// cleaning stage decides the row's fate from there.
func FlattenPayloads(payloads []StationPayload) []RawRecord {
	var records []RawRecord
	for _, p := range payloads {
		for _, obs := range p.Observations {
			ts := p.ReferenceTime
			if ref, err := time.Parse(time.RFC3339, p.ReferenceTime); err == nil {
				if d, err := ParseISODuration(obs.TimeOffset); err == nil {
					ts = ref.Add(d).UTC().Format(time.RFC3339)
				}
			}
			value := ""
			if obs.Value != nil {
				value = strconv.FormatFloat(*obs.Value, 'f', -1, 64)
			}
			records = append(records, RawRecord{
				Datatype:           obs.ElementID,
				Value:              value,
				Unit:               obs.Unit,
				TimeOffset:         obs.TimeOffset,
				Station:            p.SourceID,
				ReferenceTimestamp: ts,
			})
		}
	}
	return records
}

// ParseISODuration parses the subset of ISO-8601 durations used by the
// observation feed: PnDTnHnMnS with non-negative integer components.
func ParseISODuration(s string) (time.Duration, error) {
	orig := s
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("parse duration %q: missing P designator", orig)
	}
	var (
		d      time.Duration
		num    strings.Builder
		inTime bool
	)
	for _, r := range s[1:] {
		switch {
		case r == 'T' && !inTime:
			inTime = true
		case unicode.IsDigit(r):
			num.WriteRune(r)
		default:
			if num.Len() == 0 {
				return 0, fmt.Errorf("parse duration %q: designator %c without value", orig, r)
			}
			n, err := strconv.Atoi(num.String())
			if err != nil {
				return 0, fmt.Errorf("parse duration %q: %w", orig, err)
			}
			num.Reset()
			switch {
			case r == 'D' && !inTime:
				d += time.Duration(n) * 24 * time.Hour
			case r == 'H' && inTime:
				d += time.Duration(n) * time.Hour
			case r == 'M' && inTime:
				d += time.Duration(n) * time.Minute
			case r == 'S' && inTime:
				d += time.Duration(n) * time.Second
			default:
				return 0, fmt.Errorf("parse duration %q: unsupported designator %c", orig, r)
			}
		}
	}
	if num.Len() > 0 {
		return 0, fmt.Errorf("parse duration %q: trailing value %s", orig, num.String())
	}
	return d, nil
}
