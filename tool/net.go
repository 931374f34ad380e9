package tool

import (
	"net"
	"sort"
	"strconv"
)

// usableInterface reports whether iface can carry LAN traffic to the frontend.
func usableInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return false
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return false
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return false // utun / tun / vpn
	}
	return true
}

// LANURLs lists http://<ipv4>:port for every usable interface, sorted.
func LANURLs(port int) []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	for i := range ifaces {
		if !usableInterface(&ifaces[i]) {
			continue
		}
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() {
				continue
			}
			if ipv4 := ipnet.IP.To4(); ipv4 != nil {
				seen[ipv4.String()] = struct{}{}
			}
		}
	}

	urls := make([]string, 0, len(seen))
	for ip := range seen {
		urls = append(urls, "http://"+net.JoinHostPort(ip, strconv.Itoa(port)))
	}
	sort.Strings(urls)
	return urls
}
