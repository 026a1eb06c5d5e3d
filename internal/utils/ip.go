package utils

import (
	"net"
	"strings"
)

// RealLocalIP guesses the host's own LAN IPv4 by scanning the network
// interfaces for a private address, preferring 192.168.0.0/16, then
// 10.0.0.0/8, then 172.16.0.0/12. It is the last resort of the client
// address resolver: when a request arrives over loopback with no proxy
// headers, the caller is on this machine and the LAN address is the one an
// admin would put on an allowlist.
func RealLocalIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "127.0.0.1"
	}
	var ten, oneSeventyTwo string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil || ip4.IsLoopback() {
				continue
			}
			s := ip4.String()
			switch {
			case strings.HasPrefix(s, "192.168."):
				return s
			case strings.HasPrefix(s, "10.") && ten == "":
				ten = s
			case ip4.IsPrivate() && oneSeventyTwo == "":
				oneSeventyTwo = s
			}
		}
	}
	if ten != "" {
		return ten
	}
	if oneSeventyTwo != "" {
		return oneSeventyTwo
	}
	return "127.0.0.1"
}
