package clasp

import (
	"context"
	"path"

	"github.com/viant/clasp/internal/clock"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/progress"
	"github.com/viant/clasp/rule/allowlist"
	"github.com/viant/clasp/rule/denylist"
	"github.com/viant/clasp/rule/limiter"
	"github.com/viant/clasp/service/dao/document"
	"github.com/viant/clasp/service/dao/store"
	"github.com/viant/clasp/service/event"
	"github.com/viant/clasp/service/messaging"
	"github.com/viant/clasp/service/messaging/fs"
	"github.com/viant/clasp/service/messaging/memory"
	"github.com/viant/clasp/token"
)

// Service assembles a closed-loop asset engine: a treasury, its policy with
// the admin capability, the document loader and the event bus. It exists to
// wire the pieces; all operations live on Runtime.
type Service struct {
	runtime          *Runtime
	config           *Config
	eventService     *event.Service
	documentService  *document.Service
	extensionBinders []document.Binder
	documentsBaseURL string
	initialDocument  string
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}

	s.documentService.Register(denylist.New())
	s.documentService.Register(allowlist.New())
	s.documentService.Register(limiter.New())
	for _, binder := range s.extensionBinders {
		s.documentService.Register(binder)
	}

	treasury := token.NewTreasury()
	p, cap, err := policy.New(treasury)
	if err != nil {
		return err
	}
	s.runtime.treasury = treasury
	s.runtime.policy = p
	s.runtime.adminCap = cap
	s.runtime.guard = token.NewGuard()
	s.runtime.documents = s.documentService
	s.runtime.events = s.eventService
	s.runtime.confirmations = store.NewMemoryStore[string, ConfirmationRecord](
		func(r *ConfirmationRecord) string { return r.ID })
	s.runtime.progress = &progress.Progress{PolicyID: p.ID(), StartedAt: clock.Now()}

	if s.initialDocument != "" {
		if err := s.runtime.ApplyDocument(context.Background(), s.initialDocument); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.eventService == nil {
		vendor := messaging.Vendor(s.config.Queue.Vendor)
		if vendor == "" {
			vendor = "memory"
		}
		var opts []event.Option
		switch vendor {
		case "fs":
			basePath := s.config.Queue.BasePath
			opts = append(opts, event.WithNewFsQueueConfig(func(name string) fs.Config {
				config := fs.DefaultConfig()
				config.BasePath = path.Join(basePath, name)
				return config
			}))
		default:
			bufferSize := s.config.Queue.BufferSize
			opts = append(opts, event.WithNewMemoryQueueConfig(func(string) memory.Config {
				config := memory.DefaultConfig()
				if bufferSize > 0 {
					config.QueueBuffer = bufferSize
				}
				return config
			}))
		}
		var err error
		if s.eventService, err = event.New(vendor, opts...); err != nil {
			return err
		}
	}
	if s.documentService == nil {
		var opts []document.Option
		if s.documentsBaseURL != "" {
			opts = append(opts, document.WithBaseURL(s.documentsBaseURL))
		}
		s.documentService = document.New(opts...)
	}
	return nil
}

// Runtime returns the engine runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Atomic runs fn as one unit of work: every action request opened through
// the runtime must be resolved by one of the confirmation paths before fn
// returns, otherwise the unit fails with ErrUnresolvedRequest.
func (s *Service) Atomic(ctx context.Context, fn func(ctx context.Context, runtime *Runtime) error) error {
	if err := fn(ctx, s.runtime); err != nil {
		return err
	}
	return s.runtime.AssertResolved()
}

// Documents returns the policy document service.
func (s *Service) Documents() *document.Service {
	return s.documentService
}

// Events returns the event service.
func (s *Service) Events() *event.Service {
	return s.eventService
}

// New creates an engine service: it claims the policy for a fresh treasury,
// registers the built-in rules and wires the event bus per configuration.
func New(options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

// NewFromConfig creates an engine service from an explicit configuration.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	return New(append([]Option{WithConfig(config)}, options...)...)
}
