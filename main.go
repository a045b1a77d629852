package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gogpu/gg"

	"signpad/internal/config"
	"signpad/internal/export"
	"signpad/internal/signature"
	"signpad/internal/store"
	"signpad/internal/transfer"
	"signpad/internal/ui"
)

const (
	appName     = "signpad"
	collectMode = "collect"
	sendTimeout = 10 * time.Second
)

func main() {
	args := os.Args
	if len(args) > 1 && args[1] == collectMode {
		runCollector(args[2:])
	} else {
		runPad(args[1:])
	}
}

// statusSink shows progress to the user; *ui.App in the pad.
type statusSink interface {
	SetStatus(text string)
}

// padHost stores, exports and forwards what the dialog produces.
type padHost struct {
	cfg     *config.Config
	archive *store.Store
	status  statusSink
}

func (h *padHost) SignatureFinished(file signature.File, strokes []signature.Stroke, size signature.Size) {
	go h.process(file, strokes, size)
}

func (h *padHost) SignatureClosed() {
	log.Println("[PAD] dialog closed without a signature")
}

func (h *padHost) process(file signature.File, strokes []signature.Stroke, size signature.Size) {
	path, err := export.WritePNG(h.cfg.Storage.Directory, file)
	if err != nil {
		log.Printf("[PAD] write png: %v", err)
		h.status.SetStatus(fmt.Sprintf("Could not save %s: %v", file.Name, err))
		return
	}
	log.Printf("[PAD] saved %s", path)

	if h.cfg.Storage.PDF {
		if pdfPath, err := export.WritePDF(h.cfg.Storage.Directory, file.Name, strokes, size); err != nil {
			log.Printf("[PAD] write pdf: %v", err)
		} else {
			log.Printf("[PAD] saved %s", pdfPath)
		}
	}

	if h.archive != nil {
		if err := h.archive.Save(file, "local"); err != nil {
			log.Printf("[PAD] archive: %v", err)
		}
	}

	if h.cfg.Transfer.Enabled {
		h.send(file)
	}
}

func (h *padHost) send(file signature.File) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	addr := h.cfg.Transfer.Collector
	if addr == "" {
		found, err := transfer.Discover(ctx, h.cfg.Transfer.DiscoveryTimeout)
		if err != nil {
			log.Printf("[PAD] discovery: %v", err)
			h.status.SetStatus("No collector found on the network")
			return
		}
		addr = found[0]
	}

	ack, err := transfer.Send(ctx, addr, file)
	switch {
	case errors.Is(err, transfer.ErrRejected):
		log.Printf("[PAD] %s rejected %s: %s", addr, file.Name, ack.Reason)
		h.status.SetStatus(fmt.Sprintf("Collector rejected %s", file.Name))
	case err != nil:
		log.Printf("[PAD] send to %s: %v", addr, err)
		h.status.SetStatus(fmt.Sprintf("Could not send %s", file.Name))
	default:
		h.status.SetStatus(fmt.Sprintf("Sent %s to %s", file.Name, addr))
	}
}

func loadConfig(path string, debug bool) *config.Config {
	if debug {
		gg.SetLogger(slog.Default())
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("[CONFIG] %v, using defaults", err)
	}
	return cfg
}

func runPad(args []string) {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	debug := fs.Bool("debug", false, "log rendering internals")
	_ = fs.Parse(args)

	log.Println("Starting as PAD")
	cfg := loadConfig(*configPath, *debug)

	h := &padHost{cfg: cfg}
	if cfg.Storage.Archive {
		archive, err := store.Open(appName)
		if err != nil {
			log.Printf("[STORE] archive disabled: %v", err)
		} else {
			h.archive = archive
		}
	}

	app := ui.New(cfg, h)
	h.status = app
	app.Run()
}

// collectorSink writes each received file to dir and archives it under the
// sending pad's address.
func collectorSink(dir string, archive *store.Store) transfer.Sink {
	return func(file signature.File, from string) error {
		if _, err := export.WritePNG(dir, file); err != nil {
			return err
		}
		return archive.Save(file, from)
	}
}

func runCollector(args []string) {
	fs := flag.NewFlagSet(collectMode, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	port := fs.Int("port", 0, "listen port (default from config)")
	dir := fs.String("dir", "", "directory for received signatures (default from config)")
	debug := fs.Bool("debug", false, "log rendering internals")
	_ = fs.Parse(args)

	log.Println("Starting as COLLECTOR")
	cfg := loadConfig(*configPath, *debug)
	if *port == 0 {
		*port = cfg.Transfer.ListenPort
	}
	if *dir == "" {
		*dir = filepath.Join(cfg.Storage.Directory, "received")
	}

	archive, err := store.Open(appName + "-collector")
	if err != nil {
		log.Printf("[STORE] falling back to memory: %v", err)
		archive, _ = store.New(nil)
	}

	collector := transfer.NewCollector(collectorSink(*dir, archive))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := collector.ListenAndServe(ctx, *port); err != nil {
		log.Fatalf("[COLLECTOR] %v", err)
	}
	log.Printf("[COLLECTOR] stopped, %d signatures archived", len(archive.List()))
}
