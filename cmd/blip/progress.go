package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressBar draws one bar per track on stderr. It satisfies render.Progress.
type progressBar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out}
}

func (p *progressBar) Start(track int, totalFrames int64) {
	p.bar = progressbar.NewOptions64(totalFrames,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(fmt.Sprintf("track %d", track)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressBar) Advance(frames int) {
	if p.bar != nil {
		_ = p.bar.Add(frames)
	}
}

func (p *progressBar) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
