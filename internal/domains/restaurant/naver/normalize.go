package naver

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// =====================================================
// COORDINATE & PLACE-ID NORMALIZER
// =====================================================
// Pure functions, no I/O. The provider's coordinate encoding is not
// reliably self-describing across response shapes, so a magnitude
// heuristic disambiguates; the place-id extraction reverse-engineers an
// opaque permalink embedding. The fallback orders are load-bearing for
// deduplication and must not be reordered.

const maxPlaceIDLength = 255

// fixedPointThreshold: decimal-degree coordinates never exceed 180 in
// magnitude, so anything above this must be fixed-point encoded.
const fixedPointThreshold = 1000

var digitRunPattern = regexp.MustCompile(`\d+`)

// ConvertCoordinate converts a raw mapx/mapy value to decimal degrees.
// Empty, unparseable, NaN and infinite inputs are unresolved (nil).
// Zero stays zero. Values with magnitude above 1000 are treated as
// fixed-point and divided by scale; everything is rounded to 6 decimals.
func ConvertCoordinate(raw string, scale float64) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}

	if value == 0 {
		zero := 0.0
		return &zero
	}

	if math.Abs(value) > fixedPointThreshold {
		value = value / scale
	}

	rounded := math.Round(value*1e6) / 1e6
	return &rounded
}

// ExtractPlaceID extracts a stable place identifier from a result
// permalink. Returns "" for absent input.
//
// Fallback chain, preserved exactly:
//  1. path segment following a "place" or "entry" segment (else the last
//     path segment, but only when no "place"/"entry" segment exists),
//     taking the first run of digits
//  2. the "id" query parameter
//  3. the raw permalink truncated to 255 characters
//
// A link that is not a parseable absolute URL short-circuits to (3).
func ExtractPlaceID(link string) string {
	if link == "" {
		return ""
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return truncate(link, maxPlaceIDLength)
	}

	segments := splitPathSegments(parsed.Path)

	var candidate string
	markerFound := false
	for i, segment := range segments {
		if strings.EqualFold(segment, "place") || strings.EqualFold(segment, "entry") {
			markerFound = true
			if i+1 < len(segments) {
				candidate = segments[i+1]
			}
			break
		}
	}
	if !markerFound && len(segments) > 0 {
		candidate = segments[len(segments)-1]
	}

	if digits := digitRunPattern.FindString(candidate); digits != "" {
		return truncate(digits, maxPlaceIDLength)
	}

	if queryID := parsed.Query().Get("id"); queryID != "" {
		return truncate(queryID, maxPlaceIDLength)
	}

	return truncate(link, maxPlaceIDLength)
}

func splitPathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
