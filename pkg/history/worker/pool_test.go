package worker_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/history/inmemory"
	"github.com/papercomputeco/aitranslate/pkg/history/worker"
)

// newTestPool creates a worker pool backed by an in-memory driver.
// Callers should "wp.Close()" to drain enqueued records before asserting storage state.
func newTestPool() (*worker.Pool, *inmemory.Driver) {
	driver := inmemory.NewDriver()

	wp, err := worker.NewPool(&worker.Config{
		Driver: driver,
	})
	Expect(err).NotTo(HaveOccurred())

	return wp, driver
}

// blockingDriver holds every Put until release is closed.
type blockingDriver struct {
	release chan struct{}
	mu      sync.Mutex
	puts    int
}

func (d *blockingDriver) Put(_ context.Context, _ *history.Record) error {
	<-d.release
	d.mu.Lock()
	d.puts++
	d.mu.Unlock()
	return nil
}

func (d *blockingDriver) Get(_ context.Context, id string) (*history.Record, error) {
	return nil, history.NotFoundError{ID: id}
}

func (d *blockingDriver) List(_ context.Context, _ int) ([]*history.Record, error) {
	return nil, nil
}

func (d *blockingDriver) Close() error { return nil }

type failingDriver struct {
	blockingDriver
}

func (d *failingDriver) Put(_ context.Context, _ *history.Record) error {
	return errors.New("disk full")
}

var _ = Describe("Worker Pool", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("requires a driver", func() {
		_, err := worker.NewPool(&worker.Config{})
		Expect(err).To(HaveOccurred())
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp, _ := newTestPool()
			Expect(wp.Enqueue(history.NewRecord(history.KindTranslate))).To(BeTrue())
			wp.Close()
		})

		It("rejects nil records", func() {
			wp, _ := newTestPool()
			Expect(wp.Enqueue(nil)).To(BeFalse())
			wp.Close()
		})

		It("drops records once the queue is full", func() {
			driver := &blockingDriver{release: make(chan struct{})}
			wp, err := worker.NewPool(&worker.Config{
				Driver:     driver,
				NumWorkers: 1,
				QueueSize:  1,
			})
			Expect(err).NotTo(HaveOccurred())

			// the single worker may pick up the first record, so fill past capacity
			accepted := 0
			for range 5 {
				if wp.Enqueue(history.NewRecord(history.KindTranslate)) {
					accepted++
				}
			}
			Expect(accepted).To(BeNumerically("<", 5))

			close(driver.release)
			wp.Close()
			Expect(driver.puts).To(Equal(accepted))
		})

		It("drops records after Close", func() {
			wp, _ := newTestPool()
			wp.Close()
			Expect(wp.Enqueue(history.NewRecord(history.KindNaming))).To(BeFalse())
		})
	})

	Describe("Close", func() {
		It("drains queued records into the driver", func() {
			wp, driver := newTestPool()

			for _, input := range []string{"one", "two", "three"} {
				rec := history.NewRecord(history.KindTranslate)
				rec.Input = input
				Expect(wp.Enqueue(rec)).To(BeTrue())
			}
			wp.Close()

			records, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
		})

		It("is safe to call twice", func() {
			wp, _ := newTestPool()
			wp.Close()
			Expect(wp.Close).NotTo(Panic())
		})
	})

	It("keeps running when the driver fails", func() {
		wp, err := worker.NewPool(&worker.Config{Driver: &failingDriver{}})
		Expect(err).NotTo(HaveOccurred())

		Expect(wp.Enqueue(history.NewRecord(history.KindTranslate))).To(BeTrue())
		Expect(wp.Enqueue(history.NewRecord(history.KindTranslate))).To(BeTrue())
		wp.Close()
	})
})
