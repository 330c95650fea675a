package host

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
)

// startScan scans dir recursively in the background. Progress goes to the
// status line; only one scan runs at a time.
func (g *Game) startScan(dir string) {
	if g.scan != nil {
		g.app.SetStatus("A scan is already running")
		return
	}
	s := g.app.Scanner([]string{dir}, true)
	g.scan = s

	go s.Run()
	go func() {
		for p := range s.Progress() {
			g.app.SetStatus(p.StatusText)
		}
		res := <-s.Done()
		for _, err := range res.Errors {
			log.Warnf("scan: %v", err)
		}
		g.app.SetStatus(scanSummary(res))
		g.scans <- res
	}()
}

// drainScans finishes a scan on the ebiten goroutine.
func (g *Game) drainScans() {
	select {
	case res := <-g.scans:
		g.scan = nil
		if res.Added > 0 {
			g.chime.Play()
			g.LibraryChanged()
		}
	default:
	}
}

func scanSummary(res standalone.ScanResult) string {
	msg := fmt.Sprintf("Scan complete: %d added, %d already in library", res.Added, res.Present)
	if res.Cancelled {
		msg = fmt.Sprintf("Scan cancelled: %d added", res.Added)
	}
	if n := len(res.Errors); n > 0 {
		msg += fmt.Sprintf(", %d errors", n)
	}
	return msg
}
