// SPDX-License-Identifier: EPL-2.0

// Command audsink-host runs the WebSocket bridge that editor and browser
// hosts use to play audio on this machine.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ik5/audsink"
	"github.com/ik5/audsink/bridge"
	"github.com/ik5/audsink/internal/config"
	"github.com/ik5/audsink/internal/discovery"
	"github.com/ik5/audsink/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	backend, err := output.Lookup(cfg.Backend)
	if err != nil {
		log.Fatalf("output: %v (available: %v)", err, output.Backends())
	}

	player := audsink.NewPlayer(
		audsink.WithBackend(backend),
		audsink.WithVolume(cfg.Volume),
		audsink.WithSpeed(cfg.Speed),
	)
	defer func() { _ = player.Close() }()

	srv := bridge.New(player, bridge.Config{Addr: cfg.Addr})
	if err := srv.Start(); err != nil {
		log.Fatalf("bridge: %v", err)
	}

	var disc *discovery.Manager
	if cfg.MDNS {
		host, port := hostPort(srv.Addr())
		disc = discovery.NewManager(discovery.Config{
			ServiceName: cfg.Name,
			Host:        host,
			Port:        port,
			Path:        srv.Path(),
		})
		if err := disc.Advertise(); err != nil {
			if errors.Is(err, discovery.ErrLoopback) {
				log.Printf("mDNS disabled: %v; listen on a LAN address with -addr to be discoverable", err)
			} else {
				log.Printf("mDNS advertisement failed: %v", err)
			}
			disc = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Printf("Shutdown signal received")

	if disc != nil {
		disc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping bridge: %v", err)
	}

	log.Printf("Host stopped")
}

func hostPort(addr net.Addr) (string, int) {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String(), tcp.Port
	}
	h, p, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "", 0
	}
	n, _ := strconv.Atoi(p)
	return h, n
}
