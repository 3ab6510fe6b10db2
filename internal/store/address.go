package store

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the EIP-55 checksum form of a 20-byte hex address.
// Identifiers that are not hex addresses are only trimmed, so sources with
// non-EVM keys still round-trip unchanged.
func NormalizeAddress(raw string) string {
	s := strings.TrimSpace(raw)
	if common.IsHexAddress(s) {
		return common.HexToAddress(s).Hex()
	}
	return s
}
