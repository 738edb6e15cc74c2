// internal/guidance/aggregate/aggregator_test.go
package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "guidance-engine/internal/common/errors"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/guidance/sources"
	"guidance-engine/internal/models"
)

// stubSource settles with fixed data or a fixed error, optionally after
// a delay, without any network involvement.
type stubSource struct {
	name     models.SourceName
	degrades bool
	data     map[string]interface{}
	err      error
	delay    time.Duration
}

var _ sources.Client = (*stubSource)(nil)

func (s *stubSource) Name() models.SourceName { return s.name }
func (s *stubSource) Degrades() bool          { return s.degrades }

func (s *stubSource) Fetch(ctx context.Context, _ models.Profile, _ string) (map[string]interface{}, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func healthyHoroscope() *stubSource {
	return &stubSource{
		name: models.SourceHoroscope,
		data: map[string]interface{}{
			"areas": []interface{}{
				map[string]interface{}{"area": "career", "favorability": float64(82)},
			},
		},
	}
}

func testProfile() models.Profile {
	return models.Profile{Name: "Asha", Timezone: "UTC"}
}

func TestFetch_AllSourcesSettleIndependently(t *testing.T) {
	clients := []sources.Client{
		healthyHoroscope(),
		&stubSource{name: models.SourcePanchang, degrades: true, data: map[string]interface{}{"lunarPhase": "Full Moon"}},
		&stubSource{name: models.SourceDasha, degrades: true, err: apperrors.NewSourceFetchFailedError("dasha", assert.AnError)},
		&stubSource{name: models.SourceRemedy, degrades: true, err: apperrors.NewSourceTimeoutError("remedy", time.Second)},
	}
	agg := New(clients, logger.NewNoOpLogger())

	bundle, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	require.NoError(t, err)

	// Every configured source has an attempted entry, success or not.
	require.Len(t, bundle.Results, len(clients))
	for _, client := range clients {
		result, ok := bundle.Results[client.Name()]
		require.True(t, ok, "missing entry for %s", client.Name())
		assert.True(t, result.Attempted)
	}

	assert.NotNil(t, bundle.Data(models.SourceHoroscope))
	assert.Equal(t, "Full Moon", bundle.Data(models.SourcePanchang)["lunarPhase"])
	assert.True(t, bundle.Results[models.SourceDasha].Absent())
	assert.Error(t, bundle.Results[models.SourceDasha].Err)
	assert.True(t, bundle.Results[models.SourceRemedy].Absent())
}

func TestFetch_SecondaryFailuresOnlyDegrade(t *testing.T) {
	clients := []sources.Client{
		healthyHoroscope(),
		&stubSource{name: models.SourcePanchang, degrades: true, err: assert.AnError},
		&stubSource{name: models.SourceTransits, degrades: true, err: assert.AnError},
		&stubSource{name: models.SourceNakshatra, degrades: true, err: assert.AnError},
	}
	agg := New(clients, logger.NewNoOpLogger())

	bundle, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	require.NoError(t, err, "secondary failures must never abort the pipeline")
	assert.NotNil(t, bundle.Data(models.SourceHoroscope))
}

func TestFetch_PrimaryFailureFailsLoudly(t *testing.T) {
	clients := []sources.Client{
		&stubSource{name: models.SourceHoroscope, err: assert.AnError},
		&stubSource{name: models.SourcePanchang, degrades: true, data: map[string]interface{}{}},
	}
	agg := New(clients, logger.NewNoOpLogger())

	bundle, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	assert.Nil(t, bundle)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePrimarySourceEmpty, apperrors.CodeOf(err))
}

func TestFetch_PrimaryEmptyResultSetFailsLoudly(t *testing.T) {
	clients := []sources.Client{
		&stubSource{name: models.SourceHoroscope, data: map[string]interface{}{"areas": []interface{}{}}},
	}
	agg := New(clients, logger.NewNoOpLogger())

	bundle, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	assert.Nil(t, bundle)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePrimarySourceEmpty, apperrors.CodeOf(err))
}

func TestFetch_NoPrimaryConfiguredFailsLoudly(t *testing.T) {
	clients := []sources.Client{
		&stubSource{name: models.SourcePanchang, degrades: true, data: map[string]interface{}{}},
	}
	agg := New(clients, logger.NewNoOpLogger())

	_, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePrimarySourceEmpty, apperrors.CodeOf(err))
}

func TestFetch_SlowSecondaryDoesNotBlockOutcome(t *testing.T) {
	clients := []sources.Client{
		healthyHoroscope(),
		&stubSource{name: models.SourceTransits, degrades: true, delay: 50 * time.Millisecond, data: map[string]interface{}{"transits": []interface{}{}}},
	}
	agg := New(clients, logger.NewNoOpLogger())

	start := time.Now()
	bundle, err := agg.Fetch(context.Background(), testProfile(), "2026-08-30")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, bundle.Data(models.SourceTransits))
	// Concurrent fan-out: total time tracks the slowest source, not the sum.
	assert.Less(t, elapsed, 200*time.Millisecond)
}
