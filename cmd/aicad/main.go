// Command aicad runs the command-line CAD editor: a feature document with
// sketch and extrude nodes, driven by an AutoCAD-style Command: prompt.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/tsao100/AICAD-sub000/internal/adapters/coordtext"
	"github.com/tsao100/AICAD-sub000/internal/adapters/featurestore"
	"github.com/tsao100/AICAD-sub000/internal/adapters/filewatcher"
	"github.com/tsao100/AICAD-sub000/internal/adapters/renderer"
	"github.com/tsao100/AICAD-sub000/internal/adapters/sketchfile"
	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
	"github.com/tsao100/AICAD-sub000/internal/domain/usecases"
	"github.com/tsao100/AICAD-sub000/internal/infrastructure/config"
	"github.com/tsao100/AICAD-sub000/internal/infrastructure/console"
)

func main() {
	configPath := flag.String("config", "aicad.yaml", "editor configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	store, err := featurestore.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("[ERROR] opening feature store: %v", err)
	}
	defer store.Close()

	if err := os.MkdirAll(cfg.SketchDir, 0755); err != nil {
		log.Printf("[ERROR] creating sketch dir: %v", err)
	}

	var watcher ports.SketchWatcher
	if w, err := filewatcher.NewFSNotifyWatcher(nil); err != nil {
		log.Printf("[ERROR] sketch watcher unavailable: %v", err)
	} else {
		watcher = w
		defer w.Stop()
	}

	msg := &console.Messenger{Out: os.Stdout}
	ed := usecases.NewEditor(
		renderer.Null{},
		store,
		coordtext.New(),
		sketchfile.New(),
		msg,
	)
	ed.Viewport.GridSpacing = cfg.GridSpacing
	ed.Viewport.SnapEnabled = cfg.SnapEnabled
	ed.Viewport.MinScale = cfg.MinZoom
	if cfg.Autosave {
		ed.AutosaveDir = cfg.SketchDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("[INFO] AICAD starting, data=%s sketches=%s", cfg.DataDir, cfg.SketchDir)
	c := console.New(ed, os.Stdin, os.Stdout, watcher)
	if err := c.Run(ctx, cfg.SketchDir); err != nil {
		log.Fatalf("[ERROR] console: %v", err)
	}
}
