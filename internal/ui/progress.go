package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"zenget/pkg/types"

	"github.com/schollz/progressbar/v3"
)

// ProgressUI renders a progress bar per file transfer. It implements
// transfer.ProgressObserver and is safe for concurrent use, though bars
// interleave cosmetically when more than one worker is active.
type ProgressUI struct {
	mu   sync.Mutex
	bars map[string]*progressbar.ProgressBar
}

// NewProgressUI creates a new progress bar UI
func NewProgressUI() *ProgressUI {
	return &ProgressUI{
		bars: make(map[string]*progressbar.ProgressBar),
	}
}

// TransferStarted initializes the bar for a file at its resume offset
func (p *ProgressUI) TransferStarted(d types.FileDescriptor, offset int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := d.Size
	if total <= 0 {
		total = -1 // spinner when the size is unknown
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", d.Name)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
	if offset > 0 {
		_ = bar.Set64(offset)
	}
	p.bars[d.Name] = bar
}

// TransferProgress updates the bar with the bytes written so far
func (p *ProgressUI) TransferProgress(d types.FileDescriptor, bytesWritten, total int64) {
	p.mu.Lock()
	bar := p.bars[d.Name]
	p.mu.Unlock()
	if bar == nil {
		return
	}
	_ = bar.Set64(bytesWritten)
}

// TransferFinished closes the bar and prints the terminal outcome
func (p *ProgressUI) TransferFinished(outcome types.Outcome) {
	p.mu.Lock()
	bar := p.bars[outcome.Descriptor.Name]
	delete(p.bars, outcome.Descriptor.Name)
	p.mu.Unlock()

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}
