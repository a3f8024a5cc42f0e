package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/brogergvhs/nelodl/internal/util"
)

// ProgressManager owns the bar container shared by all chapters of a run.
type ProgressManager struct {
	p    *mpb.Progress
	once sync.Once
}

func NewProgressManager(w io.Writer) *ProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{p: p}
}

// Close waits for every registered bar to complete. It may be called more
// than once.
func (pm *ProgressManager) Close() {
	pm.once.Do(pm.p.Wait)
}

// Register adds one chapter bar. The bar must be finished with MarkDone.
func (pm *ProgressManager) Register(name string) *ProgressHandle {
	h := &ProgressHandle{name: name, start: time.Now()}

	h.bar = pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(name+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + util.Human(h.bytes.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
		),
	)

	return h
}

type ProgressHandle struct {
	name string
	bar  *mpb.Bar

	total atomic.Int64
	bytes atomic.Int64

	start   time.Time
	elapsed atomic.Int64
	final   atomic.Bool
}

func (h *ProgressHandle) Update(done, total int, bytes int64) {
	if h.final.Load() {
		return
	}

	if total > 0 && int64(total) != h.total.Load() {
		h.total.Store(int64(total))
		h.bar.SetTotal(int64(total), false)
	}

	h.bytes.Store(bytes)
	h.bar.SetCurrent(int64(done))
}

func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.bar.SetTotal(h.total.Load(), true)
}
