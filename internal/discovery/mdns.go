// ABOUTME: mDNS advertisement of the bitgrind control endpoint
// ABOUTME: Publishes the WebSocket MIDI port so controllers can find the processor
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/mdns"
)

const serviceType = "_bitgrind-ctl._tcp"

// Config holds advertisement configuration
type Config struct {
	InstanceName string // human-readable instance name, e.g. "bitgrind"
	Port         int    // WebSocket control port
	Path         string // WebSocket control path, published as a TXT record
}

// Advertiser publishes the control endpoint over mDNS until stopped
type Advertiser struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAdvertiser creates an advertiser for the given endpoint
func NewAdvertiser(config Config) *Advertiser {
	ctx, cancel := context.WithCancel(context.Background())

	return &Advertiser{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins advertising the control endpoint
func (a *Advertiser) Start() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		a.config.InstanceName,
		serviceType,
		"",
		"",
		a.config.Port,
		ips,
		[]string{"path=" + a.config.Path},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", a.config.InstanceName, a.config.Port, serviceType)

	go func() {
		<-a.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop shuts down the advertisement
func (a *Advertiser) Stop() {
	a.cancel()
}

// getLocalIPs returns the IPv4 addresses of all up, non-loopback interfaces
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
