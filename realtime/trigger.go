// Package realtime menggabungkan polling interval, change feed dan refresh
// manual (fokus layar) menjadi satu sinyal "refresh sekarang".
package realtime

import (
	"context"
	"time"
)

type Reason string

const (
	ReasonTick   Reason = "tick"
	ReasonChange Reason = "change"
	ReasonFocus  Reason = "focus"
)

type Signal struct {
	Reason Reason
	At     time.Time
}

// Trigger adalah channel satu slot. Sinyal yang datang saat slot penuh
// digabung ke sinyal yang belum dibaca, jadi konsumen yang lambat tidak
// pernah menumpuk antrian refresh.
type Trigger struct {
	name string
	ch   chan Signal
}

func NewTrigger(name string) *Trigger {
	return &Trigger{name: name, ch: make(chan Signal, 1)}
}

func (t *Trigger) Name() string { return t.name }

// C dipakai oleh satu konsumen saja
func (t *Trigger) C() <-chan Signal { return t.ch }

// Fire tidak pernah blocking. Mengembalikan false jika sinyal digabung.
func (t *Trigger) Fire(reason Reason) bool {
	select {
	case t.ch <- Signal{Reason: reason, At: time.Now()}:
		return true
	default:
		return false
	}
}

// Every menembakkan ReasonTick setiap interval sampai ctx selesai.
func (t *Trigger) Every(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Fire(ReasonTick)
		case <-ctx.Done():
			return nil
		}
	}
}

// Follow menembakkan ReasonChange untuk setiap perubahan pada tabel yang
// disebut. Tanpa daftar tabel semua perubahan dihitung.
func (t *Trigger) Follow(ctx context.Context, feed Feed, tables ...string) error {
	changes, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	filter := make(map[string]bool, len(tables))
	for _, tbl := range tables {
		filter[tbl] = true
	}

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if len(filter) == 0 || filter[change.Table] {
				t.Fire(ReasonChange)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run memanggil fn untuk setiap sinyal secara berurutan sampai ctx selesai.
func (t *Trigger) Run(ctx context.Context, fn func(context.Context, Signal)) error {
	for {
		select {
		case sig := <-t.ch:
			fn(ctx, sig)
		case <-ctx.Done():
			return nil
		}
	}
}

// Group menembakkan beberapa trigger sekaligus, misalnya saat terminal
// kembali fokus dan semua tampilan perlu refresh.
type Group struct {
	triggers []*Trigger
}

func NewGroup(triggers ...*Trigger) *Group {
	return &Group{triggers: triggers}
}

func (g *Group) Fire(reason Reason) {
	if g == nil {
		return
	}
	for _, t := range g.triggers {
		t.Fire(reason)
	}
}
