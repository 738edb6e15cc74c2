// internal/guidance/normalize/normalizer_test.go
package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidance-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

func testProfile() models.Profile {
	return models.Profile{
		Name:      "Asha",
		BirthDate: "1991-04-12",
		BirthTime: "06:45",
		Timezone:  "UTC",
		Latitude:  12.9716,
		Longitude: 77.5946,
		Place:     "Bengaluru",
	}
}

func horoscopeArea(area string, favorability float64) map[string]interface{} {
	return map[string]interface{}{
		"area":         area,
		"favorability": favorability,
		"insight":      "Reading for " + area,
		"detail":       "Detail for " + area,
		"hint":         "Hint for " + area,
	}
}

func bundleWith(results map[models.SourceName]map[string]interface{}) *models.RawBundle {
	bundle := models.NewRawBundle("fp-test", "2026-08-30", models.AllSources)
	for name := range bundle.Results {
		data := results[name]
		bundle.Results[name] = models.SourceResult{Attempted: true, Data: data}
	}
	return bundle
}

func fullHoroscope() map[string]interface{} {
	return map[string]interface{}{
		"areas": []interface{}{
			horoscopeArea(models.AreaCareer, 82),
			horoscopeArea(models.AreaWealth, 40),
			horoscopeArea(models.AreaRelationships, 91),
			horoscopeArea(models.AreaHealth, 65),
			horoscopeArea(models.AreaTravel, 55),
			horoscopeArea(models.AreaLearning, 73),
		},
		"headline":   "A day of strong connections",
		"paragraphs": []interface{}{"First paragraph.", "Second paragraph."},
		"focus":      "Nurture key relationships.",
		"avoid":      "Avoid impulsive spending.",
	}
}

// ==========================
// Score and Band Tests
// ==========================

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-20, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{140, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Clamp(tc.in))
	}
}

func TestStatus_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.StatusBand
	}{
		{100, models.StatusExcellent},
		{85, models.StatusExcellent},
		{84, models.StatusFavorable},
		{70, models.StatusFavorable},
		{69, models.StatusNeutral},
		{50, models.StatusNeutral},
		{49, models.StatusSensitive},
		{30, models.StatusSensitive},
		{29, models.StatusCaution},
		{0, models.StatusCaution},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Status(tc.score), "score %d", tc.score)
	}
}

func TestStatus_MonotonicOverFullRange(t *testing.T) {
	prev := Status(0)
	for score := 1; score <= 100; score++ {
		cur := Status(score)
		assert.GreaterOrEqual(t, models.BandRank(cur), models.BandRank(prev),
			"status must never get worse as the score rises (at %d)", score)
		prev = cur
	}
}

// ==========================
// Payload Construction Tests
// ==========================

func TestBuild_ExampleScenario(t *testing.T) {
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: fullHoroscope(),
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	assert.Equal(t, models.AreaRelationships, payload.BestArea)
	assert.Equal(t, models.AreaWealth, payload.WorstArea)

	byArea := make(map[string]models.AreaRow)
	for _, row := range payload.Areas {
		byArea[row.Area] = row
	}
	assert.Equal(t, 91, byArea[models.AreaRelationships].Score)
	assert.Equal(t, models.StatusExcellent, byArea[models.AreaRelationships].Status)
	assert.Equal(t, 40, byArea[models.AreaWealth].Score)
	assert.Equal(t, models.StatusSensitive, byArea[models.AreaWealth].Status)
	assert.Equal(t, models.StatusFavorable, byArea[models.AreaCareer].Status)
}

func TestBuild_ClampsOutOfRangeScores(t *testing.T) {
	horoscope := map[string]interface{}{
		"areas": []interface{}{
			horoscopeArea(models.AreaCareer, 140),
			horoscopeArea(models.AreaWealth, -12),
		},
	}
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: horoscope,
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	byArea := make(map[string]models.AreaRow)
	for _, row := range payload.Areas {
		byArea[row.Area] = row
	}
	assert.Equal(t, 100, byArea[models.AreaCareer].Score)
	assert.Equal(t, 0, byArea[models.AreaWealth].Score)
}

func TestBuild_MissingAreasDefaultToNeutral(t *testing.T) {
	horoscope := map[string]interface{}{
		"areas": []interface{}{
			horoscopeArea(models.AreaCareer, 82),
		},
	}
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: horoscope,
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	require.Len(t, payload.Areas, len(models.LifeAreas))
	for _, row := range payload.Areas {
		if row.Area == models.AreaCareer {
			continue
		}
		assert.Equal(t, NeutralScore, row.Score, "area %s", row.Area)
		assert.Equal(t, models.StatusNeutral, row.Status, "area %s", row.Area)
		assert.NotEmpty(t, row.Overview)
		assert.NotEmpty(t, row.Detail)
	}
}

func TestBuild_TieBreakIsFirstEncountered(t *testing.T) {
	horoscope := map[string]interface{}{
		"areas": []interface{}{
			horoscopeArea(models.AreaCareer, 90),
			horoscopeArea(models.AreaWealth, 90),
			horoscopeArea(models.AreaRelationships, 20),
			horoscopeArea(models.AreaHealth, 20),
		},
	}
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: horoscope,
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	// Rows follow LifeAreas order, so career precedes wealth and
	// relationships precedes health.
	assert.Equal(t, models.AreaCareer, payload.BestArea)
	assert.Equal(t, models.AreaRelationships, payload.WorstArea)
}

func TestBuild_AllSecondarySourcesAbsentStillCompletes(t *testing.T) {
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: fullHoroscope(),
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	assert.NotEmpty(t, payload.Header.DateLabel)
	assert.NotEmpty(t, payload.Header.Greeting)
	assert.NotEmpty(t, payload.Hero.Headline)
	assert.NotEmpty(t, payload.Hero.Paragraphs)
	assert.NotEmpty(t, payload.Decision.Recommendation)
	assert.NotEmpty(t, payload.Decision.Basis)
	require.Len(t, payload.Energy, 3)
	for _, period := range payload.Energy {
		assert.NotEmpty(t, period.Note)
		assert.GreaterOrEqual(t, period.Score, 0)
		assert.LessOrEqual(t, period.Score, 100)
	}
	assert.NotEmpty(t, payload.Remedy)
	assert.NotNil(t, payload.Transits)
	assert.NotNil(t, payload.Activities)
	assert.Equal(t, "Asha", payload.Meta.Subject)
	assert.Equal(t, "2026-08-30", payload.Meta.DateKey)
	assert.Equal(t, testNow, payload.Meta.GeneratedAt)
}

func TestBuild_SecondarySourcesPopulateWidgets(t *testing.T) {
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: fullHoroscope(),
		models.SourcePanchang: {
			"lunarPhase": "Waxing Gibbous",
			"periods": []interface{}{
				map[string]interface{}{"period": "morning", "score": float64(88), "note": "Auspicious start"},
			},
		},
		models.SourceDasha: {
			"theme": "Venus period favors harmony",
		},
		models.SourceTransits: {
			"transits": []interface{}{
				map[string]interface{}{"planet": "Saturn", "movement": "retrograde", "effect": "delays"},
			},
		},
		models.SourceRemedy: {
			"remedy": "Offer water to the rising sun",
			"mantra": "Om Shram Shreem",
		},
		models.SourceNakshatra: {
			"nakshatra":  "Rohini",
			"pada":       float64(2),
			"deity":      "Brahma",
			"activities": []interface{}{"planting", "journaling"},
		},
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	assert.Equal(t, "Waxing Gibbous", payload.Header.LunarPhase)
	assert.Equal(t, "Venus period favors harmony", payload.Decision.Basis)
	require.Len(t, payload.Transits, 1)
	assert.Equal(t, "Saturn", payload.Transits[0].Planet)
	assert.Equal(t, "Offer water to the rising sun", payload.Remedy)
	assert.Equal(t, "Om Shram Shreem", payload.Mantra)
	assert.Equal(t, "Rohini", payload.Nakshatra.Name)
	assert.Equal(t, 2, payload.Nakshatra.Pada)
	assert.Equal(t, []string{"planting", "journaling"}, payload.Activities)

	require.Len(t, payload.Energy, 3)
	assert.Equal(t, 88, payload.Energy[0].Score)
	assert.Equal(t, "Auspicious start", payload.Energy[0].Note)
}

func TestBuild_Deterministic(t *testing.T) {
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: fullHoroscope(),
	})

	a := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)
	b := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	assert.Equal(t, a, b)
}

// ==========================
// Truncation Tests
// ==========================

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under cap untouched", "short text", 20, "short text"},
		{"exactly at cap untouched", "abcde", 5, "abcde"},
		{"over cap marked", "abcdef", 5, "abcde" + Ellipsis},
		{"zero cap disables", "whatever", 0, "whatever"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.in, tc.max))
		})
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	in := strings.Repeat("ॐ", 10)
	got := Truncate(in, 4)
	assert.Equal(t, strings.Repeat("ॐ", 4)+Ellipsis, got)
}

func TestBuild_OverviewTruncatedWithMarker(t *testing.T) {
	long := strings.Repeat("x", 500)
	horoscope := map[string]interface{}{
		"areas": []interface{}{
			map[string]interface{}{
				"area":         models.AreaCareer,
				"favorability": float64(60),
				"insight":      long,
			},
		},
	}
	bundle := bundleWith(map[models.SourceName]map[string]interface{}{
		models.SourceHoroscope: horoscope,
	})

	payload := New(0).Build(bundle, testProfile(), "2026-08-30", testNow)

	var career models.AreaRow
	for _, row := range payload.Areas {
		if row.Area == models.AreaCareer {
			career = row
		}
	}
	assert.True(t, strings.HasSuffix(career.Overview, Ellipsis))
	assert.Len(t, []rune(career.Overview), DefaultOverviewMaxRunes+1)
	// Detail is not subject to the overview cap.
	assert.Equal(t, long, career.Detail)
}
