package worker

import (
	"runtime"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/kinematic/oerror"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for f := range workerQueue {
		run(f)
	}
}

// run executes f and keeps the worker alive if it panics.
func run(f func()) {
	defer func() {
		if err := recover(); err != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(oerror.New("worker crashed: %v", err))
			hub.Flush(time.Second * 5)
		}
	}()
	f()
}

// To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Workers returns the number of worker goroutines.
func Workers() int {
	return runtime.NumCPU()
}

// Run calls fn for every index in [0, n) on the workers and waits for every call to return. The
// error of the lowest failing index is returned. A call that panics is reported with the job tag
// and fails with an error. Run must not be called from inside a job.
func Run(job string, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		Submit(func() {
			defer wg.Done()
			errs[i] = call(job, i, fn)
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func call(job string, i int, fn func(i int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = oerror.New("%s %d panicked: %v", job, i, r)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("job", job)
			})
			hub.Recover(err)
			hub.Flush(time.Second * 5)
		}
	}()
	return fn(i)
}
