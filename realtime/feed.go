package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-pos/utils"
)

// Change adalah satu perubahan baris di store
type Change struct {
	Table    string    `json:"table"`
	RecordID string    `json:"record_id,omitempty"`
	Action   string    `json:"action"`
	At       time.Time `json:"at"`
}

// Feed menyebarkan perubahan ke semua subscriber. Channel dari Subscribe
// ditutup ketika ctx selesai.
type Feed interface {
	Publish(ctx context.Context, change Change) error
	Subscribe(ctx context.Context) (<-chan Change, error)
}

const subscriberBuffer = 64

// LocalFeed adalah feed di dalam satu proses
type LocalFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Change
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[int]chan Change)}
}

// Publish tidak menunggu subscriber yang lambat; perubahan yang tidak
// muat di buffer dibuang karena polling berikutnya akan menyusul.
func (f *LocalFeed) Publish(ctx context.Context, change Change) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for id, ch := range f.subs {
		select {
		case ch <- change:
		default:
			utils.InfoLogger.Debugf("Feed subscriber %d is full, dropping %s change", id, change.Table)
		}
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, subscriberBuffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Subscribers untuk monitoring
func (f *LocalFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
