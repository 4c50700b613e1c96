package clasp

import (
	"github.com/viant/clasp/service/dao/document"
	"github.com/viant/clasp/service/event"
	"github.com/viant/clasp/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the engine service.
type Option func(s *Service)

// WithConfig supplies an explicit engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithEventService overrides the event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithDocumentService overrides the policy document service.
func WithDocumentService(service *document.Service) Option {
	return func(s *Service) {
		s.documentService = service
	}
}

// WithDocumentsBaseURL sets the base location policy document names resolve
// against; ignored when WithDocumentService is used.
func WithDocumentsBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.documentsBaseURL = baseURL
	}
}

// WithBinders registers custom rule binders alongside the built-in rules.
func WithBinders(binders ...document.Binder) Option {
	return func(s *Service) {
		s.extensionBinders = append(s.extensionBinders, binders...)
	}
}

// WithInitialDocument applies the policy document at the given location
// during construction, so the engine starts with a configured policy.
func WithInitialDocument(location string) Option {
	return func(s *Service) {
		s.initialDocument = location
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise spans are written to the
// supplied file path. Only the first successful initialisation takes effect.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures tracing with a caller-supplied exporter,
// allowing OTLP, Jaeger or Zipkin integration.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
