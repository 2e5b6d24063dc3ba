package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/textmarquee/marquee"
	"github.com/textmarquee/marquee/cwriter"
	"github.com/textmarquee/marquee/internal/config"
	"github.com/textmarquee/marquee/internal/control"
	"github.com/textmarquee/marquee/sink"
)

var Version = "0.3.0"

// errQuit is returned by the screen event loop when user asks to quit.
var errQuit = errors.New("quit")

func main() {
	configPath := flag.String("config", "marquee.yaml", "Path to config file")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level, err := log.ParseLevel(cfg.Logs.Level)
	if err != nil {
		log.Fatalf("Bad log level: %v", err)
	}
	log.SetLevel(level)

	// Frames and log lines share the terminal otherwise
	if cfg.Logs.File != "" {
		logFile, err := os.OpenFile(cfg.Logs.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	log.Infof("Starting marquee v%s with %d marquees", Version, len(cfg.Marquees))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Errorf("Exiting: %v", err)
		os.Exit(1)
	}
	log.Info("Shut down")
}

func run(ctx context.Context, cfg *config.Config) error {
	debug := log.StandardLogger().WriterLevel(log.DebugLevel)
	defer debug.Close()

	var screen tcell.Screen
	var cw *cwriter.Writer
	switch cfg.Display {
	case config.DisplayScreen:
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
		defer s.Fini()
		s.Clear()
		screen = s
	default:
		cw = cwriter.New(os.Stdout)
		if !cw.IsTerminal() {
			log.Warn("Stdout is not a terminal, frames are rewritten in place with carriage returns")
		}
		defer fmt.Println()
	}

	g, ctx := errgroup.WithContext(ctx)

	marquees := make(map[string]*marquee.Marquee, len(cfg.Marquees))
	defer func() {
		for _, m := range marquees {
			m.Stop()
		}
	}()

	for _, mc := range cfg.Marquees {
		opts, err := mc.Options()
		if err != nil {
			return fmt.Errorf("marquee %q: %w", mc.Name, err)
		}
		var r marquee.Renderer
		if screen != nil {
			r = sink.NewScreen(screen, mc.Row, mc.Indent, tcell.StyleDefault)
		} else {
			r = sink.NewLine(cw, mc.Row, mc.Indent)
		}
		opts = append(opts, marquee.WithRenderer(r), marquee.WithDebugOutput(debug))

		m, err := marquee.NewWithContext(ctx, mc.Text, opts...)
		if err != nil {
			return fmt.Errorf("marquee %q: %w", mc.Name, err)
		}
		marquees[mc.Name] = m
		if !mc.Paused {
			m.Start()
		}
		if mc.Stdin {
			// not part of the group: a blocked read would hold up shutdown
			go feed(m, os.Stdin)
		}
		log.WithFields(log.Fields{
			"name":      mc.Name,
			"direction": m.Direction(),
			"interval":  m.Interval(),
			"step":      m.ScrollStep(),
			"running":   m.Running(),
		}).Info("Marquee ready")
	}

	if cfg.Control.Listen != "" {
		srv := control.New(cfg.Control.Listen, marquees)
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}

	if screen != nil {
		g.Go(func() error {
			return pollScreen(ctx, screen)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	for name, m := range marquees {
		if err := m.Err(); err != nil {
			log.Warnf("Marquee %s stopped on error: %v", name, err)
		}
	}
	return nil
}

func feed(m *marquee.Marquee, r io.Reader) {
	w := m.TextWriter()
	if _, err := io.Copy(w, r); err != nil {
		log.Warnf("Reading text: %v", err)
	}
	if err := w.Close(); err != nil {
		log.Warnf("Updating text: %v", err)
	}
}

// pollScreen handles terminal events until ctx is done or user presses
// q, Esc or Ctrl-C.
func pollScreen(ctx context.Context, s tcell.Screen) error {
	go func() {
		<-ctx.Done()
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	for {
		switch ev := s.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return errQuit
			}
		}
	}
}
