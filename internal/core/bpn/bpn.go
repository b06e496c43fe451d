// Package bpn provides Business Partner Number formatting, classification and
// the issuance contract. BPNs are globally unique per kind and immutable once
// issued; implementations of Issuer live in the infrastructure layer.
package bpn

import (
	"strings"

	"bpdm/internal/core/apperror"
)

// Kind identifies the business partner kind a BPN addresses.
type Kind string

const (
	KindLegalEntity Kind = "LEGAL_ENTITY"
	KindSite        Kind = "SITE"
	KindAddress     Kind = "ADDRESS"
)

const (
	prefixLegalEntity = "BPNL"
	prefixSite        = "BPNS"
	prefixAddress     = "BPNA"

	// payloadLen is the number of base-36 counter characters after the prefix.
	payloadLen = 10
	// checksumLen is the number of trailing check characters.
	checksumLen = 2
	// totalLen is the full BPN length, e.g. BPNL000000000001XY.
	totalLen = 4 + payloadLen + checksumLen

	// checksumModulus keeps the check value representable in two base-36 chars.
	checksumModulus = 1271
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxCounter is the largest counter value representable in the payload (36^10 - 1).
const MaxCounter int64 = 3_656_158_440_062_975

// IsValidKind reports whether k is a known partner kind.
func IsValidKind(k Kind) bool {
	switch k {
	case KindLegalEntity, KindSite, KindAddress:
		return true
	}
	return false
}

// Prefix returns the BPN prefix for a kind.
func Prefix(k Kind) string {
	switch k {
	case KindLegalEntity:
		return prefixLegalEntity
	case KindSite:
		return prefixSite
	case KindAddress:
		return prefixAddress
	}
	return ""
}

// Format renders the BPN for a counter value: prefix, zero-padded base-36
// counter, two check characters.
func Format(k Kind, counter int64) (string, error) {
	prefix := Prefix(k)
	if prefix == "" {
		return "", apperror.NewValidation("unknown partner kind").WithDetail("kind", string(k))
	}
	if counter < 0 || counter > MaxCounter {
		return "", apperror.NewIssuanceExhausted(string(k))
	}

	var b strings.Builder
	b.Grow(totalLen)
	b.WriteString(prefix)
	b.WriteString(encodeBase36(counter, payloadLen))
	b.WriteString(encodeBase36(counter%checksumModulus, checksumLen))
	return b.String(), nil
}

// Classify determines the partner kind of a BPN and verifies its shape and
// check characters.
func Classify(value string) (Kind, error) {
	if len(value) != totalLen {
		return "", malformed(value)
	}

	var kind Kind
	switch value[:4] {
	case prefixLegalEntity:
		kind = KindLegalEntity
	case prefixSite:
		kind = KindSite
	case prefixAddress:
		kind = KindAddress
	default:
		return "", malformed(value)
	}

	counter, ok := decodeBase36(value[4 : 4+payloadLen])
	if !ok {
		return "", malformed(value)
	}
	check, ok := decodeBase36(value[4+payloadLen:])
	if !ok || check != counter%checksumModulus {
		return "", malformed(value)
	}

	return kind, nil
}

// Valid reports whether value is a well-formed BPN of any kind.
func Valid(value string) bool {
	_, err := Classify(value)
	return err == nil
}

// IsKind reports whether value is a well-formed BPN of the given kind.
func IsKind(value string, k Kind) bool {
	kind, err := Classify(value)
	return err == nil && kind == k
}

func malformed(value string) error {
	return apperror.NewValidation("malformed BPN").WithDetail("value", value)
}

func encodeBase36(n int64, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = alphabet[n%36]
		n /= 36
	}
	return string(buf)
}

func decodeBase36(s string) (int64, bool) {
	var n int64
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return 0, false
		}
		n = n*36 + int64(idx)
	}
	return n, true
}
