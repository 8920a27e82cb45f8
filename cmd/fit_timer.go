package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rivo/tview"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/catalog"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/config"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/logging"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/timer"
)

// uiLogBufferLines bounds how many log lines can queue for the in-app
// log view before the oldest are dropped.
const uiLogBufferLines = 256

func main() {
	cfg, err := config.Load(os.Args[1:])
	must("load configuration", err)

	// The UI owns the terminal, so logs go to a rotated file plus the
	// in-app log view instead of stdout.
	uiLogWriter := logging.NewLineWriter(uiLogBufferLines)
	logger := logging.NewLogger(cfg.LogFile, cfg.LogToStdout, uiLogWriter)
	logger.Printf("fit-timer starting (store=%s)", cfg.Store)

	var sess store.Store
	switch cfg.Store {
	case config.StoreSQLite:
		must("create data directory", os.MkdirAll(filepath.Dir(cfg.DBPath), 0755))
		sess, err = store.NewSQLiteStore(cfg.DBPath, logger)
	case config.StoreFile:
		sess, err = store.NewFileStore(cfg.StorePath, logger)
	default:
		sess = store.NewMemoryStore()
	}
	must("open store", err)

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath, logger)
		must("load exercise catalog", err)
	} else {
		cat = catalog.Builtin(logger)
	}

	model := timer.NewModel(logger, uiLogWriter.Lines())

	app := tview.NewApplication()

	// The terminal bell is the only audio a curses app has; the cue log
	// lines double as a visible trace of what fired.
	cues := timer.NewTerminalCuePlayer(logger, nil)

	engine := timer.NewEngine(model, sess, cues, logger)
	controller := timer.NewController(model, engine, sess, cat, logger)

	controller.ApplyConfig(cfg.Timer)
	controller.RefreshPresets()

	viewImpl := timer.NewCursesView(logger, app, model)
	baseView := timer.NewBaseView(timer.NewBaseViewArg{
		ViewImpl:   viewImpl,
		Model:      model,
		Controller: controller,
		Logger:     logger,
	})

	runErr := baseView.Run()

	// Shutdown order matters: the view stops reading events first, then
	// the controller stops the engine, then the model stops fanning out.
	baseView.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	must("close store", sess.Close())

	logger.Printf("fit-timer exiting")
	must("run UI", runErr)
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
