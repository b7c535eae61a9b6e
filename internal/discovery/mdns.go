// SPDX-License-Identifier: EPL-2.0

// Package discovery advertises a running bridge over mDNS so hosts on the
// local network can find it without configuration.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service the bridge registers as.
const ServiceType = "_audsink._tcp"

// ErrLoopback is returned by Advertise when the bridge only listens on a
// loopback address, which no other host could reach.
var ErrLoopback = errors.New("listen address is loopback only")

type Config struct {
	ServiceName string
	// Host is the address the bridge is bound to. Empty or unspecified
	// (0.0.0.0, ::) advertises every local interface.
	Host string
	Port int
	// Path is published as a TXT record; default "/player".
	Path   string
	Logger *log.Logger
}

// Manager owns one mDNS responder.
type Manager struct {
	config Config
	logger *log.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	server *mdns.Server
}

func NewManager(config Config) *Manager {
	if config.Path == "" {
		config.Path = "/player"
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// TXT returns the TXT records published with the service.
func (m *Manager) TXT() []string {
	return []string{"path=" + m.config.Path}
}

// Advertise starts answering mDNS queries until Stop.
func (m *Manager) Advertise() error {
	ips, err := advertisedIPs(m.config.Host)
	if err != nil {
		return err
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		m.TXT(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	m.mu.Lock()
	m.server = server
	m.mu.Unlock()

	m.logger.Printf("discovery: advertising %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		_ = server.Shutdown()
	}()

	return nil
}

// Stop withdraws the advertisement. Safe to call more than once.
func (m *Manager) Stop() {
	m.cancel()
}

// advertisedIPs picks the addresses to publish for a bridge bound to host.
func advertisedIPs(host string) ([]net.IP, error) {
	if host == "localhost" {
		return nil, fmt.Errorf("%w: %s", ErrLoopback, host)
	}

	if host != "" {
		ip := net.ParseIP(host)
		switch {
		case ip == nil:
			return nil, fmt.Errorf("invalid listen host %q", host)
		case ip.IsLoopback():
			return nil, fmt.Errorf("%w: %s", ErrLoopback, host)
		case !ip.IsUnspecified():
			return []net.IP{ip}, nil
		}
	}

	ips, err := getLocalIPs()
	if err != nil {
		return nil, fmt.Errorf("failed to get local IPs: %w", err)
	}
	return ips, nil
}

// getLocalIPs returns the IPv4 addresses of every non-loopback interface
// that is up.
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
