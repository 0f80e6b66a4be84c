/*
Package taskgraph runs tasks with explicit dependencies.

Tasks are added with Go, naming the futures they depend on. A task starts as
soon as all of its dependencies have completed successfully; independent
tasks run concurrently. The first task failing cancels the graph's context:
tasks not yet started are skipped, running tasks are expected to honour the
context, and Wait reports the first error.

Dependencies can only name futures which already exist, so every graph is
acyclic by construction.

	g := taskgraph.New(ctx)
	a := taskgraph.Go(g, "a", func(ctx context.Context) (int, error) { return 1, nil })
	b := taskgraph.Go(g, "b", func(ctx context.Context) (int, error) {
		v, _ := a.Get()
		return v + 1, nil
	}, a)
	err := g.Wait()

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package taskgraph

import (
	"context"
	"errors"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// tracer writes to trace with key 'iconfont.tasks'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.tasks")
}

// ErrSkipped is the error of a task which did not run because a dependency
// failed or the graph was cancelled.
var ErrSkipped = errors.New("task skipped")

// Graph is a set of tasks with dependencies.
type Graph struct {
	eg  *errgroup.Group
	ctx context.Context

	mu        sync.Mutex
	names     map[string]bool
	completed []string // names of successful tasks, in completion order
}

// New creates an empty graph. Tasks run with a context derived from ctx,
// which is cancelled at the first failure.
func New(ctx context.Context) *Graph {
	eg, ctx := errgroup.WithContext(ctx)
	return &Graph{eg: eg, ctx: ctx, names: make(map[string]bool)}
}

// Dep is a dependency of a task. It is implemented by *Future.
type Dep interface {
	dep() *task
}

type task struct {
	name string
	done chan struct{}
	err  error // written before done is closed
}

func (t *task) dep() *task { return t }

// Future is the result of a task.
type Future[T any] struct {
	*task
	value T
}

// Name returns the name of the task computing f.
func (f *Future[T]) Name() string {
	return f.name
}

// Get waits for the task to complete and returns its result. Within a
// dependent task, Get returns immediately.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Done returns a channel which is closed when the task has completed,
// successfully or not.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Go adds a task to graph g. fn is started after every dependency in deps
// has completed successfully. Task names must be unique within a graph.
func Go[T any](g *Graph, name string, fn func(ctx context.Context) (T, error), deps ...Dep) *Future[T] {
	g.mu.Lock()
	if g.names[name] {
		g.mu.Unlock()
		panic("taskgraph: duplicate task name " + name)
	}
	g.names[name] = true
	g.mu.Unlock()
	f := &Future[T]{task: &task{name: name, done: make(chan struct{})}}
	waitFor := make([]*task, len(deps))
	for i, d := range deps {
		waitFor[i] = d.dep()
	}
	g.eg.Go(func() error {
		defer close(f.done)
		for _, dep := range waitFor {
			select {
			case <-dep.done:
			case <-g.ctx.Done():
				f.err = ErrSkipped
				return nil
			}
			if dep.err != nil {
				tracer().Debugf("task %s skipped: %s did not succeed", name, dep.name)
				f.err = ErrSkipped
				return nil
			}
		}
		if g.ctx.Err() != nil {
			f.err = ErrSkipped
			return nil
		}
		tracer().Debugf("task %s started", name)
		f.value, f.err = fn(g.ctx)
		if f.err != nil {
			tracer().Errorf("task %s failed: %v", name, f.err)
			return f.err
		}
		g.mu.Lock()
		g.completed = append(g.completed, name)
		g.mu.Unlock()
		tracer().Debugf("task %s done", name)
		return nil
	})
	return f
}

// Wait waits for all tasks and returns the first error of a failing task.
// If the context the graph was created with is cancelled before all tasks
// are done, Wait returns the context's error.
func (g *Graph) Wait() error {
	if err := g.eg.Wait(); err != nil {
		return err
	}
	g.mu.Lock()
	incomplete := len(g.completed) < len(g.names)
	g.mu.Unlock()
	if incomplete {
		return context.Cause(g.ctx)
	}
	return nil
}

// Completed returns the names of the tasks which completed successfully,
// in order of completion.
func (g *Graph) Completed() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.completed...)
}
