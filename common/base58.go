package common

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// EncodeBytesToBase58 encodes bytes directly to base58
func EncodeBytesToBase58(bytes []byte) string {
	return base58.Encode(bytes)
}

// DecodeBase58ToBytes decodes base58 string to bytes
func DecodeBase58ToBytes(base58Str string) ([]byte, error) {
	bytes, err := base58.Decode(base58Str)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 string: %w", err)
	}
	return bytes, nil
}

// IsValidBase58 checks if a string is valid base58
func IsValidBase58(str string) bool {
	decoded, err := base58.Decode(str)
	return err == nil && len(decoded) > 0
}

// ParseAddress validates a base58 account address and returns it unchanged.
// It is the account id parser of the default runtime.
func ParseAddress(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}
	if !IsValidBase58(addr) {
		return "", fmt.Errorf("address %q is not valid base58", addr)
	}
	return addr, nil
}
