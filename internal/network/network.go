package network

import (
	"fmt"
	"net"
	"net/netip"
)

// GetOutboundIP gets the preferred outbound ip address of this machine,
// no packets are sent.
func GetOutboundIP() (netip.Addr, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return netip.Addr{}, fmt.Errorf("dialing to get outbound ip address: %w", err)
	}
	defer conn.Close()
	ip := conn.LocalAddr().(*net.UDPAddr).IP
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, fmt.Errorf("parsing outbound ip address %v", ip)
	}
	return addr.Unmap(), nil
}

// ReachableURL returns the http URL other machines on the LAN can use for a
// server on port, falling back to localhost without a route.
func ReachableURL(port int) string {
	host := "localhost"
	if addr, err := GetOutboundIP(); err == nil {
		host = addr.String()
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(port))
}
