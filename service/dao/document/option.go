package document

import "github.com/viant/afs"

// Option customises the document service.
type Option func(*Service)

// WithBaseURL sets the base location relative document names resolve
// against.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithFS overrides the storage service, e.g. for tests using mem://.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithBinders registers rule binders at construction time.
func WithBinders(binders ...Binder) Option {
	return func(s *Service) {
		for _, binder := range binders {
			s.binders[binder.Name()] = binder
			s.registry.Register(binder)
		}
	}
}
