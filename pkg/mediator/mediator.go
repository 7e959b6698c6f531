// Package mediator mirrors tree mutations to the remote record store.
//
// Local state is authoritative: every action is applied to the tree first and
// immediately, then the matching remote writes are started in the background.
// Writes are never awaited by the caller, never retried, and a failure never
// rolls the tree back; outcomes are reported to a Sink.
package mediator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tasktree/pkg/record"
	"tasktree/pkg/tree"
)

// DefaultWriteTimeout bounds a single background write.
const DefaultWriteTimeout = 10 * time.Second

// Options configures a Mediator.
type Options struct {
	UserID       string        // stamped on every inserted row
	WriteTimeout time.Duration // zero means DefaultWriteTimeout
	Sink         Sink          // nil means LogSink{}
}

// Mediator wraps a tree.Store with remote persistence.
type Mediator struct {
	store   *tree.Store
	remote  record.Store
	sink    Sink
	userID  string
	timeout time.Duration

	wg sync.WaitGroup
}

// New creates a Mediator.
func New(store *tree.Store, remote record.Store, opts Options) *Mediator {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Sink == nil {
		opts.Sink = LogSink{}
	}
	return &Mediator{
		store:   store,
		remote:  remote,
		sink:    opts.Sink,
		userID:  opts.UserID,
		timeout: opts.WriteTimeout,
	}
}

// Load reads both tables, rebuilds the tree and installs it. On a read
// failure the tree is left as it was and the error is returned.
func (m *Mediator) Load(ctx context.Context) error {
	var (
		projects []record.ProjectRow
		tasks    []record.TaskRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = m.remote.SelectProjects(gctx)
		if err != nil {
			return fmt.Errorf("fetch projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = m.remote.SelectTasks(gctx)
		if err != nil {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("mediator: load: %v", err)
		return err
	}

	m.store.Apply(tree.InitProjects{Projects: record.Rebuild(projects, tasks)})
	log.Printf("mediator: loaded %d projects from %d task rows", len(projects), len(tasks))
	return nil
}

// Dispatch applies a locally and starts the remote writes that mirror it.
func (m *Mediator) Dispatch(a tree.Action) tree.State {
	tr := m.store.Apply(a)
	for _, w := range Plan(tr, m.userID) {
		m.spawn(w)
	}
	return tr.Next.Clone()
}

// State returns a copy of the current tree.
func (m *Mediator) State() tree.State {
	return m.store.State()
}

// Subscribe returns a channel receiving every new state.
func (m *Mediator) Subscribe() chan tree.State {
	return m.store.Subscribe()
}

// Unsubscribe removes a subscriber and closes its channel.
func (m *Mediator) Unsubscribe(ch chan tree.State) {
	m.store.Unsubscribe(ch)
}

// Wait blocks until every write started so far has finished. Only shutdown
// paths and tests should need it.
func (m *Mediator) Wait() {
	m.wg.Wait()
}

func (m *Mediator) spawn(w Write) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		start := time.Now()
		err := m.apply(ctx, w)
		m.sink.Observe(w, time.Since(start), err)
	}()
}

func (m *Mediator) apply(ctx context.Context, w Write) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", w, r)
		}
	}()
	return w.Apply(ctx, m.remote)
}
