package server

import (
	"log/slog"
	"net"
	"net/netip"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/mdns"

	"github.com/twels/front/internal/version"
)

const mdnsService = "_twels._tcp"

func startMDNSAdvertiser(serverAddr, instance string) func() {
	port := listenPortFromAddr(serverAddr)
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum <= 0 {
		return func() {}
	}

	host, _ := os.Hostname()
	if strings.TrimSpace(host) == "" {
		host = "twels"
	}
	instance = strings.TrimSpace(instance)
	if instance == "" {
		instance = "twels-" + host
	}

	service, err := mdns.NewMDNSService(instance, mdnsService, "", "", portNum, discoverAdvertiseIPs(), mdnsMeta())
	if err != nil {
		slog.Error("mdns advertise service setup failed", "error", err)
		return func() {}
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		slog.Error("mdns advertise start failed", "error", err)
		return func() {}
	}
	slog.Info("mdns advertising enabled", "service", mdnsService, "instance", instance, "port", port)

	return func() {
		server.Shutdown()
	}
}

func mdnsMeta() []string {
	meta := []string{
		"name=twels",
		"api_version=1",
		"version=" + version.Current(),
	}
	if v := version.Canonical(); v != "" {
		meta = append(meta, "semver="+v)
	}
	return meta
}

func discoverAdvertiseIPs() []net.IP {
	ifAddrs, err := net.InterfaceAddrs()
	if err != nil {
		slog.Warn("mdns list interface addresses", "error", err)
		return nil
	}
	return filterAdvertiseIPs(ifAddrs)
}

// filterAdvertiseIPs keeps the unique global unicast interface addresses,
// IPv4 before IPv6 and in address order within each family.
func filterAdvertiseIPs(addrs []net.Addr) []net.IP {
	var keep []netip.Addr
	for _, a := range addrs {
		prefix, err := netip.ParsePrefix(a.String())
		if err != nil {
			continue
		}
		ip := prefix.Addr().Unmap()
		if !ip.IsGlobalUnicast() || slices.Contains(keep, ip) {
			continue
		}
		keep = append(keep, ip)
	}
	slices.SortFunc(keep, func(x, y netip.Addr) int {
		if x.Is4() != y.Is4() {
			if x.Is4() {
				return -1
			}
			return 1
		}
		return x.Compare(y)
	})
	out := make([]net.IP, 0, len(keep))
	for _, ip := range keep {
		out = append(out, net.IP(ip.AsSlice()))
	}
	return out
}

// listenPortFromAddr returns the port of a listen address such as ":8080",
// "host:8080" or a bare "8080". An empty address means the default port.
func listenPortFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return "8080"
	case !strings.Contains(addr, ":"):
		return addr
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return port
}
