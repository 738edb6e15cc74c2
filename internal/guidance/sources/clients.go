// internal/guidance/sources/clients.go
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"guidance-engine/internal/common/config"
	"guidance-engine/internal/common/errors"
	"guidance-engine/internal/common/httpclient"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/models"
	"guidance-engine/pkg/registry"
)

// DefaultTimeout applies when neither config nor registry set one.
const DefaultTimeout = 4 * time.Second

// HTTPSource is the standard JSON-over-HTTP source client.
type HTTPSource struct {
	name     models.SourceName
	url      string
	timeout  time.Duration
	degrades bool
	schema   *gojsonschema.Schema
	http     *httpclient.Client
	logger   logger.Logger
}

func NewHTTPSource(name models.SourceName, url string, timeout time.Duration, degrades bool, schema *gojsonschema.Schema, log logger.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		name:     name,
		url:      url,
		timeout:  timeout,
		degrades: degrades,
		schema:   schema,
		// Outer client timeout is a backstop; the per-fetch context
		// carries the real budget.
		http:   httpclient.New(timeout + time.Second),
		logger: log.WithFields(map[string]interface{}{"source": string(name)}),
	}
}

func (s *HTTPSource) Name() models.SourceName { return s.name }

func (s *HTTPSource) Degrades() bool { return s.degrades }

func (s *HTTPSource) Timeout() time.Duration { return s.timeout }

func (s *HTTPSource) Fetch(ctx context.Context, profile models.Profile, dateKey string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.http.PostJSON(ctx, s.url, newRequest(profile, dateKey))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSourceTimeoutError(string(s.name), s.timeout)
		}
		return nil, errors.NewSourceFetchFailedError(string(s.name), err)
	}

	if s.schema != nil {
		result, err := s.schema.Validate(gojsonschema.NewGoLoader(data))
		if err != nil {
			return nil, errors.NewSourceResponseInvalidError(string(s.name), err.Error())
		}
		if !result.Valid() {
			return nil, errors.NewSourceResponseInvalidError(string(s.name), describeSchemaErrors(result))
		}
	}

	return data, nil
}

func describeSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// BuildClients constructs one client per registry entry that is enabled
// in config. Config timeout overrides the registry default. The fail
// fallback policy is reserved for the horoscope source: every other
// source must be able to degrade, or the bundle's defaulting contract
// breaks.
func BuildClients(reg *registry.SourceRegistry, cfgs map[string]config.SourceConfig, log logger.Logger) ([]Client, error) {
	clients := make([]Client, 0, len(reg.Sources))
	for _, spec := range reg.Sources {
		if spec.Fallback == registry.FallbackFail && spec.ID != string(models.SourceHoroscope) {
			return nil, fmt.Errorf("source %q declares fallback %q, which only %q may carry", spec.ID, registry.FallbackFail, models.SourceHoroscope)
		}

		cfg, ok := cfgs[spec.ID]
		if !ok || !cfg.Enabled {
			continue
		}

		schema, err := spec.CompileSchema()
		if err != nil {
			return nil, err
		}

		timeout := time.Duration(spec.TimeoutMS) * time.Millisecond
		if cfg.Timeout > 0 {
			timeout = time.Duration(cfg.Timeout) * time.Millisecond
		}

		url := strings.TrimSuffix(cfg.BaseURL, "/") + "/" + strings.TrimPrefix(spec.Path, "/")
		clients = append(clients, NewHTTPSource(
			models.SourceName(spec.ID),
			url,
			timeout,
			spec.Fallback != registry.FallbackFail,
			schema,
			log,
		))
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return clients, nil
}
