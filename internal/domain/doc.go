// Package domain models per-station observation data from the Frost
// weather API (frost.met.no).
//
// # Data shapes
//
// Observations arrive in one of two shapes:
//
//   - A flat, headerless CSV export with the fixed column order
//     datatype, value, unit, timeOffset, timeResolution, timeSeriesId,
//     performanceCategory, qualityCode, (reserved), station,
//     referenceTimestamp. Extra trailing columns are ignored.
//   - Nested per-station JSON payloads {sourceId, referenceTime,
//     observations: [{elementId, value, unit, timeOffset}, ...]},
//     flattened by [FlattenPayloads].
//
// # Conventions
//
// Datatype tags are Frost element IDs such as
// "sum(precipitation_amount P1D)" or "max(surface_air_pressure P1D)".
// The substring before the aggregation window names the physical
// quantity; the aggregation policy map matches on such substrings.
//
// Time offsets are ISO-8601 durations: "PT6H" means six hours past the
// reference time. Reference timestamps are RFC 3339 UTC instants.
// Station IDs look like "SN90450".
//
// # Missing values
//
// Values travel as strings until the cleaning stage coerces them. A
// value that fails coercion becomes an explicit missing marker rather
// than a dropped row, so the day slot survives for the gap-filling
// stage. A row whose timestamp fails to parse never existed as an
// observation and is dropped outright.
package domain
