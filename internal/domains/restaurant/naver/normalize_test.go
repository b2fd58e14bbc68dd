package naver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCoordinate(t *testing.T) {
	scale := 100000.0

	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "empty string is unresolved", raw: "", want: nil},
		{name: "whitespace only is unresolved", raw: "   ", want: nil},
		{name: "unparseable is unresolved", raw: "abc", want: nil},
		{name: "fixed-point positive", raw: "1270503039", want: ptr(12705.03039)},
		{name: "fixed-point typical longitude", raw: "12705030", want: ptr(127.0503)},
		{name: "fixed-point typical latitude", raw: "3751651", want: ptr(37.51651)},
		{name: "already decimal degrees passes through", raw: "127.0503039", want: ptr(127.050304)},
		{name: "decimal degrees rounds to 6 places", raw: "37.1234567", want: ptr(37.123457)},
		{name: "zero stays zero", raw: "0", want: ptr(0.0)},
		{name: "boundary magnitude 1000 is not scaled", raw: "1000", want: ptr(1000.0)},
		{name: "negative fixed-point", raw: "-12705030", want: ptr(-127.0503)},
		{name: "negative decimal passes through", raw: "-127.05", want: ptr(-127.05)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertCoordinate(tt.raw, scale)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestExtractPlaceID(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			name: "empty link",
			link: "",
			want: "",
		},
		{
			name: "place segment followed by id",
			link: "https://map.naver.com/v5/place/123456",
			want: "123456",
		},
		{
			name: "entry segment followed by id",
			link: "https://pcmap.place.naver.com/restaurant/entry/998877",
			want: "998877",
		},
		{
			name: "place segment case-insensitive",
			link: "https://map.naver.com/v5/Place/42",
			want: "42",
		},
		{
			name: "digits embedded in candidate segment",
			link: "https://map.naver.com/v5/place/rest-777-main",
			want: "777",
		},
		{
			name: "no marker falls back to last segment",
			link: "https://map.naver.com/restaurants/55501",
			want: "55501",
		},
		{
			name: "marker as last segment does not fall back",
			link: "https://map.naver.com/v5/place?id=31337",
			want: "31337",
		},
		{
			name: "id query parameter",
			link: "https://map.naver.com/search?id=20201",
			want: "20201",
		},
		{
			name: "no digits and no id falls back to raw link",
			link: "https://map.naver.com/about/company",
			want: "https://map.naver.com/about/company",
		},
		{
			name: "relative link is not a parseable absolute url",
			link: "/v5/place/123456",
			want: "/v5/place/123456",
		},
		{
			name: "plain text link",
			link: "not a url at all",
			want: "not a url at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPlaceID(tt.link))
		})
	}
}

func TestExtractPlaceIDTruncatesLongFallback(t *testing.T) {
	long := "https://" + strings.Repeat("a", 300) + ".example.com/about/page"
	got := ExtractPlaceID(long)
	assert.Len(t, got, 255)
	assert.Equal(t, long[:255], got)
}

func ptr(v float64) *float64 {
	return &v
}
