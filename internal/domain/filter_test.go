package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string, mag, depth float64, place string) SeismicEvent {
	return SeismicEvent{
		ID:           id,
		Place:        place,
		Magnitude:    mag,
		HasMagnitude: true,
		DepthKm:      depth,
	}
}

// threeEvents is the fixture used across filter and report tests: one event
// per magnitude band, two sharing a place.
func threeEvents() []SeismicEvent {
	return []SeismicEvent{
		event("ev-1", 2, 10, "X"),
		event("ev-2", 6, 50, "Y"),
		event("ev-3", 4, 600, "X"),
	}
}

func TestApplyFilters_FullRangePassesEverything(t *testing.T) {
	events := threeEvents()
	got := ApplyFilters(events, FullRange())

	require.Len(t, got, 3)
	assert.Empty(t, cmp.Diff(events, got), "full-range criteria must return the input unchanged, same order")
}

func TestApplyFilters_MagnitudeRange(t *testing.T) {
	criteria := FullRange()
	criteria.MinMagnitude = 5

	got := ApplyFilters(threeEvents(), criteria)

	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)
}

func TestApplyFilters_DepthRange(t *testing.T) {
	criteria := FullRange()
	criteria.MaxDepthKm = 100

	got := ApplyFilters(threeEvents(), criteria)

	require.Len(t, got, 2)
	assert.Equal(t, "ev-1", got[0].ID)
	assert.Equal(t, "ev-2", got[1].ID)
}

func TestApplyFilters_KeywordCaseInsensitive(t *testing.T) {
	for _, keyword := range []string{"y", "Y"} {
		criteria := FullRange()
		criteria.PlaceKeyword = keyword

		got := ApplyFilters(threeEvents(), criteria)

		require.Len(t, got, 1, "keyword %q", keyword)
		assert.Equal(t, "Y", got[0].Place)
	}
}

func TestApplyFilters_KeywordSubstring(t *testing.T) {
	events := []SeismicEvent{
		event("ev-1", 3, 10, "10 km NE of Ridgecrest, CA"),
		event("ev-2", 3, 10, "Fiji region"),
	}
	criteria := FullRange()
	criteria.PlaceKeyword = "ridgecrest"

	got := ApplyFilters(events, criteria)

	require.Len(t, got, 1)
	assert.Equal(t, "ev-1", got[0].ID)
}

func TestApplyFilters_EmptyKeywordMatchesMissingPlace(t *testing.T) {
	events := []SeismicEvent{event("ev-1", 3, 10, "")}

	got := ApplyFilters(events, FullRange())

	require.Len(t, got, 1)
}

func TestApplyFilters_KeywordNeverMatchesMissingPlace(t *testing.T) {
	events := []SeismicEvent{event("ev-1", 3, 10, "")}
	criteria := FullRange()
	criteria.PlaceKeyword = "anywhere"

	got := ApplyFilters(events, criteria)

	assert.Empty(t, got)
}

// Crossed range handles are not auto-corrected: min above max matches nothing.
func TestApplyFilters_CrossedMagnitudeRangeIsEmpty(t *testing.T) {
	criteria := FullRange()
	criteria.MinMagnitude = 8
	criteria.MaxMagnitude = 2

	got := ApplyFilters(threeEvents(), criteria)

	assert.Empty(t, got)
}

func TestApplyFilters_CrossedDepthRangeIsEmpty(t *testing.T) {
	criteria := FullRange()
	criteria.MinDepthKm = 500
	criteria.MaxDepthKm = 100

	got := ApplyFilters(threeEvents(), criteria)

	assert.Empty(t, got)
}

func TestApplyFilters_NullMagnitudeFiltersAsZero(t *testing.T) {
	nullMag := SeismicEvent{ID: "ev-null", Place: "Z", DepthKm: 10}
	events := []SeismicEvent{nullMag, event("ev-1", 6, 10, "Y")}

	got := ApplyFilters(events, FullRange())
	require.Len(t, got, 2, "null magnitude passes a [0,10] range")

	criteria := FullRange()
	criteria.MinMagnitude = 1
	got = ApplyFilters(events, criteria)
	require.Len(t, got, 1, "null magnitude fails a min above zero")
	assert.Equal(t, "ev-1", got[0].ID)
}

// Soundness and completeness over a mixed collection: every output event
// satisfies all clauses, and every input event satisfying them is present,
// in original order.
func TestApplyFilters_SoundAndComplete(t *testing.T) {
	events := []SeismicEvent{
		event("a", 1.2, 5, "Alaska"),
		event("b", 5.5, 120, "Fiji region"),
		event("c", 3.1, 33, "southern Alaska"),
		event("d", 7.0, 650, "Tonga"),
		event("e", 4.9, 12, "ALASKA PENINSULA"),
	}
	criteria := FilterCriteria{
		MinMagnitude: 1,
		MaxMagnitude: 6,
		MinDepthKm:   0,
		MaxDepthKm:   200,
		PlaceKeyword: "alaska",
	}

	got := ApplyFilters(events, criteria)

	want := []SeismicEvent{events[0], events[2], events[4]}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	events := threeEvents()
	criteria := FullRange()
	criteria.MinMagnitude = 5

	_ = ApplyFilters(events, criteria)

	assert.Empty(t, cmp.Diff(threeEvents(), events))
}
