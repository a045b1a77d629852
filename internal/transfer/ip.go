package transfer

import (
	"log"
	"net"
)

// OutgoingIP finds the LAN address other machines should use to reach us.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// localIPFallback is used on networks without internet access.
func localIPFallback() string {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	log.Println("[TRANSFER] no suitable local IP found, falling back to loopback")
	return "127.0.0.1"
}
