// Package concurrency implements a channel based resource manager to run
// independent tasks concurrently over a fixed pool of resources.
package concurrency

import (
	"sync"
	"sync/atomic"
)

// Task is a function taking as input a resource that can be used
// exclusively for the duration of the call.
type Task[T any] func(resource T) (err error)

// ResourceManager hands out a fixed set of resources (e.g. one scratch
// buffer or evaluator per worker) to concurrently running tasks.
// The number of tasks running at the same time is bounded by the
// number of resources.
type ResourceManager[T any] struct {
	wg        sync.WaitGroup
	resources chan T
	failed    atomic.Bool
	once      sync.Once
	err       error
}

// NewResourceManager instantiates a new [ResourceManager] over the given resources.
// It panics if resources is empty.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	if len(resources) == 0 {
		panic("cannot NewResourceManager: no resources")
	}
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &ResourceManager[T]{resources: ch}
}

// Run schedules f to be executed concurrently on the first available resource.
// Once a task has failed, subsequent tasks are skipped.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if r.failed.Load() {
			return
		}

		resource := <-r.resources
		defer func() { r.resources <- resource }()

		if err := f(resource); err != nil {
			r.once.Do(func() {
				r.err = err
				r.failed.Store(true)
			})
		}
	}()
}

// Wait waits until all scheduled tasks have returned and
// returns the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.wg.Wait()
	return r.err
}

// ForEach runs task(resource, i) for i in [0, n) over the given resources
// and returns the first encountered error, if any.
func ForEach[T any](resources []T, n int, task func(resource T, i int) (err error)) (err error) {
	rm := NewResourceManager(resources)
	for i := 0; i < n; i++ {
		rm.Run(func(resource T) error {
			return task(resource, i)
		})
	}
	return rm.Wait()
}
