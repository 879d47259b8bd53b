package jsonrpc

import (
	"net"
	"net/http"
	"strings"
)

// JSON-RPC Method name constants
const (
	// System methods
	MethodSystemGetBlockNumber = "system.getblocknumber"

	// Account methods
	MethodAccountGetAccount = "account.getaccount"
	MethodAccountGetBalance = "account.getbalance"
	MethodAccountGetNonce   = "account.getnonce"

	// Chain methods
	MethodChainExecuteBlock = "chain.executeblock"
)

func extractClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return "unknown"
}
