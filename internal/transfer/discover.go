package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

var ErrNoCollector = errors.New("transfer: no collector found")

// Discover browses mDNS for collectors and returns their host:port
// addresses in the order they answered.
func Discover(ctx context.Context, timeout time.Duration) ([]string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []string, 1)
	go func() {
		var found []string
		seen := make(map[string]bool)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
			if !seen[addr] {
				seen[addr] = true
				found = append(found, addr)
			}
		}
		done <- found
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	found := <-done
	if err != nil {
		return found, fmt.Errorf("mDNS query: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNoCollector
	}
	return found, nil
}

func hostname() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("could not get hostname: %w", err)
	}
	return host, nil
}
