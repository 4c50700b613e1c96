package event

import (
	"github.com/viant/clasp/service/messaging/fs"
	"github.com/viant/clasp/service/messaging/memory"
)

// Option customises the event service.
type Option func(s *Service)

// WithNewFsQueueConfig sets the filesystem queue configuration factory; the
// name argument is the payload type the queue carries.
func WithNewFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig sets the memory queue configuration factory.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}
