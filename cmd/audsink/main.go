// SPDX-License-Identifier: EPL-2.0

// Command audsink plays an audio file from the terminal.
//
//	audsink [flags] <file>
//	audsink -no-tui [file]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/audsink"
	"github.com/ik5/audsink/internal/config"
	"github.com/ik5/audsink/output"
)

// controller is the part of *audsink.Player the front ends drive.
type controller interface {
	Load(data []byte) bool
	Play() bool
	Pause()
	Stop()
	SetVolume(level float64)
	SetSpeed(speed float64)
	Empty() bool
	Err() error
	State() audsink.State
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	noTUI := flag.Bool("no-tui", false, "Use a line REPL instead of the TUI")
	flag.Float64Var(&cfg.Volume, "volume", cfg.Volume, "Initial volume in percent (0-100)")
	flag.Float64Var(&cfg.Speed, "speed", cfg.Speed, "Initial playback speed")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Output backend (oto, portaudio, malgo)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := flag.Arg(0)
	if path == "" && !*noTUI {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	log.SetOutput(f)

	backend, err := output.Lookup(cfg.Backend)
	if err != nil {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
		log.Fatalf("output: %v (available: %v)", err, output.Backends())
	}

	player := audsink.NewPlayer(
		audsink.WithBackend(backend),
		audsink.WithVolume(cfg.Volume),
		audsink.WithSpeed(cfg.Speed),
	)
	defer func() { _ = player.Close() }()

	if *noTUI {
		if err := runREPL(player, path, f); err != nil {
			log.Printf("repl: %v", err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audsink: %v\n", err)
		os.Exit(1)
	}

	m := newModel(player, path, data)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "audsink: %v\n", err)
		os.Exit(1)
	}
}
