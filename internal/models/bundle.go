// internal/models/bundle.go
package models

// SourceName identifies one configured remote data source.
type SourceName string

const (
	SourceHoroscope SourceName = "horoscope" // primary: per-life-area favorability
	SourcePanchang  SourceName = "panchang"
	SourceDasha     SourceName = "dasha"
	SourceTransits  SourceName = "transits"
	SourceRemedy    SourceName = "remedy"
	SourceNakshatra SourceName = "nakshatra"
)

// AllSources lists every configured source in a fixed order.
var AllSources = []SourceName{
	SourceHoroscope,
	SourcePanchang,
	SourceDasha,
	SourceTransits,
	SourceRemedy,
	SourceNakshatra,
}

// SourceResult is one source's outcome within a RawBundle. Attempted
// distinguishes "source failed/absent" from "source not yet attempted".
type SourceResult struct {
	Attempted bool
	Data      map[string]interface{} // nil when the source failed or timed out
	Err       error                  // populated on failure, never surfaced past the aggregator
}

// Absent reports whether the source was attempted but produced no data.
func (r SourceResult) Absent() bool {
	return r.Attempted && r.Data == nil
}

// RawBundle holds the per-source results for one (fingerprint, dateKey)
// request. Every configured source has an entry once aggregation completes.
type RawBundle struct {
	Fingerprint string
	DateKey     string
	Results     map[SourceName]SourceResult
}

// NewRawBundle returns a bundle pre-populated with unattempted entries
// for the given sources.
func NewRawBundle(fingerprint, dateKey string, sources []SourceName) *RawBundle {
	results := make(map[SourceName]SourceResult, len(sources))
	for _, s := range sources {
		results[s] = SourceResult{}
	}
	return &RawBundle{
		Fingerprint: fingerprint,
		DateKey:     dateKey,
		Results:     results,
	}
}

// Data returns the named source's payload, or nil when it is absent.
func (b *RawBundle) Data(name SourceName) map[string]interface{} {
	if b == nil {
		return nil
	}
	return b.Results[name].Data
}
