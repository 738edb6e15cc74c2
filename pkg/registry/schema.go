// pkg/registry/schema.go
package registry

// FallbackPolicy says what the aggregator does when a source fails.
type FallbackPolicy string

const (
	// FallbackDegrade drops the source's fields back to documented
	// defaults; the pipeline continues.
	FallbackDegrade FallbackPolicy = "degrade"
	// FallbackFail aborts the pipeline. Only the primary horoscope
	// source carries this policy.
	FallbackFail FallbackPolicy = "fail"
)

type SourceRegistry struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"lastUpdated"`
	Sources     []SourceSpec `json:"sources"`
}

type SourceSpec struct {
	ID             string                 `json:"id"`
	DisplayName    string                 `json:"displayName"`
	Description    string                 `json:"description"`
	Path           string                 `json:"path"` // request path under the source's base URL
	Fallback       FallbackPolicy         `json:"fallback"`
	ResponseSchema map[string]interface{} `json:"responseSchema"`
	TimeoutMS      int                    `json:"timeoutMs"`
	Tags           []string               `json:"tags"`
}
