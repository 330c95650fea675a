package host

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/sqweek/dialog"
)

type pickAction int

const (
	pickLoad pickAction = iota
	pickAdd
	pickScan
)

type pick struct {
	action pickAction
	path   string
	err    error
}

const statusSelectContent = "Select ISO/ELF/EBOOT file..."

// pickerExtensions are offered first in the file dialog. Archives are
// staged and searched for content.
var pickerExtensions = []string{
	"bin", "self", "elf", "iso",
	"zip", "7z", "rar", "gz", "tgz", "zst", "tzst", "xz", "txz", "tar",
}

// choose opens a file or folder dialog for action. The dialog blocks, so it runs on
// its own goroutine and hands the result back to Update.
func (g *Game) choose(action pickAction) {
	if g.picking {
		return
	}
	g.picking = true

	if action == pickScan {
		go func() {
			dir, err := dialog.Directory().Title("Scan Folder").Browse()
			g.picks <- pick{action: action, path: dir, err: err}
		}()
		return
	}

	title := "Load Game"
	if action == pickAdd {
		title = "Add to Library"
	}
	g.app.SetStatus(statusSelectContent)

	go func() {
		path, err := dialog.File().
			Title(title).
			Filter("Executables, disc images and archives", pickerExtensions...).
			Filter("All files", "*").
			Load()
		g.picks <- pick{action: action, path: path, err: err}
	}()
}

func (g *Game) drainPicks() {
	select {
	case p := <-g.picks:
		g.picking = false
		g.handlePick(p)
	default:
	}
}

func (g *Game) handlePick(p pick) {
	if errors.Is(p.err, dialog.ErrCancelled) {
		g.app.SetStatus("")
		return
	}
	if p.err != nil {
		log.Errorf("file dialog failed: %v", p.err)
		g.app.SetStatus("Error: " + p.err.Error())
		return
	}

	switch p.action {
	case pickLoad:
		g.app.Load(p.path)
	case pickAdd:
		res, err := g.app.AddToLibrary(p.path, "")
		if err != nil {
			log.Warnf("not added to library: %v", err)
		}
		g.toast.Show(addToastText(res, p.path, err), time.Now())
		if res == storage.Added {
			g.chime.Play()
			g.LibraryChanged()
		}
	case pickScan:
		g.startScan(p.path)
	}
}
