package mikrotik

import (
	"net/netip"
	"strings"
)

// parseSubnet parses an IPv4 CIDR and masks it to its network address.
func parseSubnet(s string) (netip.Prefix, bool) {
	p, err := netip.ParsePrefix(strings.TrimSpace(s))
	if err != nil || !p.Addr().Is4() {
		return netip.Prefix{}, false
	}
	return p.Masked(), true
}

func parseAddr(s string) (netip.Addr, bool) {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !a.Is4() {
		return netip.Addr{}, false
	}
	return a, true
}

// gatewayInSubnet reports whether gateway lies in subnet. ok is false when
// either side does not parse.
func gatewayInSubnet(gateway, subnet string) (inside, ok bool) {
	p, pok := parseSubnet(subnet)
	a, aok := parseAddr(gateway)
	if !pok || !aok {
		return false, false
	}
	return p.Contains(a), true
}

// interfaceAddress returns gateway with the prefix length of subnet, the
// form RouterOS expects in /ip address.
func interfaceAddress(gateway, subnet string) string {
	p, pok := parseSubnet(subnet)
	a, aok := parseAddr(gateway)
	if !pok || !aok {
		return gateway
	}
	return netip.PrefixFrom(a, p.Bits()).String()
}
