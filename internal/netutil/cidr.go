// Package netutil turns network ranges into scan targets.
package netutil

import (
	"fmt"
	"net"
)

// ExpandCIDR expands a CIDR range (or a single IP) into http:// target URLs,
// one per host and port. With no ports, port 80 is assumed; the default port
// is left out of the URL. Network and broadcast addresses are skipped for
// ranges wider than /31.
func ExpandCIDR(cidr string, ports []int) ([]string, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		// Maybe a single IP rather than a range.
		ip = net.ParseIP(cidr)
		if ip == nil {
			return nil, fmt.Errorf("invalid CIDR or IP: %q", cidr)
		}
		mask := net.CIDRMask(32, 32)
		if ip.To4() == nil {
			mask = net.CIDRMask(128, 128)
		}
		ipnet = &net.IPNet{IP: ip, Mask: mask}
	}

	if len(ports) == 0 {
		ports = []int{80}
	}

	var urls []string
	for ip := ip.Mask(ipnet.Mask); ipnet.Contains(ip); inc(ip) {
		ones, bits := ipnet.Mask.Size()
		if bits-ones > 1 {
			if ip.Equal(ipnet.IP) {
				continue // network address
			}
			if ip.Equal(broadcastAddr(ipnet)) {
				continue // broadcast address
			}
		}

		for _, port := range ports {
			if port == 80 {
				urls = append(urls, fmt.Sprintf("http://%s", ip))
			} else {
				urls = append(urls, fmt.Sprintf("http://%s:%d", ip, port))
			}
		}
	}

	return urls, nil
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

func broadcastAddr(n *net.IPNet) net.IP {
	ip := make(net.IP, len(n.IP))
	for i := range ip {
		ip[i] = n.IP[i] | ^n.Mask[i]
	}
	return ip
}
