package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/clasp/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue.
type MessageState string

const (
	// MessageStatePending indicates a message is waiting to be processed.
	MessageStatePending MessageState = "pending"

	// MessageStateProcessing indicates a message is being processed.
	MessageStateProcessing MessageState = "processing"

	// MessageStateCompleted indicates a message was successfully processed.
	MessageStateCompleted MessageState = "completed"

	// MessageStateFailed indicates a message exhausted its retries.
	MessageStateFailed MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue. Completed
// messages stay on disk, so the completed directory doubles as a durable
// audit journal of everything published through the queue.
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message into the completed directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedDir)
}

// Nack re-queues the message for another attempt, or moves it to the failed
// directory once the retry limit is reached.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	if m.Retries <= m.queue.config.MaxRetries {
		m.State = MessageStatePending
		return m.queue.settle(context.Background(), m, m.queue.pendingDir)
	}
	m.State = MessageStateFailed
	return m.queue.settle(context.Background(), m, m.queue.failedDir)
}

// Config holds configuration for the filesystem queue.
type Config struct {
	BasePath   string // base directory or URL for queue folders
	MaxRetries int
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/tmp/clasp/queue",
		MaxRetries: 3,
	}
}

// Queue implements a filesystem-based messaging.Queue on top of afs, so the
// base path may live on any supported storage scheme.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	mu            sync.Mutex
}

// NewQueue creates a filesystem queue, ensuring its directories exist.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		completedDir:  path.Join(config.BasePath, "completed"),
		failedDir:     path.Join(config.BasePath, "failed"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir} {
		if exists, _ := fs.Exists(ctx, dir); !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes a new message into the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	dest := path.Join(q.pendingDir, q.filename(message))
	return q.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(data))
}

// Consume moves the oldest pending message into the processing directory
// and returns it. It returns (nil, nil) when the queue is empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var pending []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			pending = append(pending, object)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	// Oldest first: filenames are prefixed with the creation timestamp.
	oldest := pending[0]
	for _, candidate := range pending[1:] {
		if candidate.Name() < oldest.Name() {
			oldest = candidate
		}
	}

	message, err := q.read(ctx, oldest.URL())
	if err != nil {
		_ = q.fs.Move(ctx, oldest.URL(), path.Join(q.failedDir, "invalid-"+oldest.Name()))
		return nil, err
	}
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	message.queue = q

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := q.fs.Upload(ctx, path.Join(q.processingDir, oldest.Name()), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to move message to processing: %w", err)
	}
	if err := q.fs.Delete(ctx, oldest.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete pending message: %w", err)
	}
	return message, nil
}

// settle rewrites the message into the destination directory and removes it
// from processing.
func (q *Queue[T]) settle(ctx context.Context, m *Message[T], destDir string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	name := q.filename(m)
	if err := q.fs.Upload(ctx, path.Join(destDir, name), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return err
	}
	processing := path.Join(q.processingDir, name)
	if exists, _ := q.fs.Exists(ctx, processing); exists {
		return q.fs.Delete(ctx, processing)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	message := &Message[T]{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return message, nil
}

func (q *Queue[T]) filename(m *Message[T]) string {
	return fmt.Sprintf("%d-%s.json", m.CreatedAt.UnixNano(), m.ID)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
