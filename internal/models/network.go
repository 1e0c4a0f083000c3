package models

// NetworkStats represents aggregated network counters across all interfaces
type NetworkStats struct {
	SentMB      float64 `json:"sent_mb"`
	RecvMB      float64 `json:"recv_mb"`
	PacketsSent uint64  `json:"packets_sent"`
	PacketsRecv uint64  `json:"packets_recv"`
	// Interfaces holds "name: address" pairs in collection order.
	Interfaces []string `json:"interfaces"`
}
