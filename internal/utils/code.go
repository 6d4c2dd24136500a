package utils

import (
	"encoding/base32"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// TicketCodePrefix marks ticket scan codes.
const TicketCodePrefix = "TKT-"

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// CodeDeriver derives opaque, one-way scan codes from record identities.
// Codes are keyed BLAKE2b digests, so they cannot be forged or reversed
// without the key.
type CodeDeriver struct {
	key []byte
}

// NewCodeDeriver keys the deriver with secret. Any length is accepted; the
// secret is compressed to a 32-byte BLAKE2b key.
func NewCodeDeriver(secret string) *CodeDeriver {
	k := blake2b.Sum256([]byte(secret))
	return &CodeDeriver{key: k[:]}
}

// TicketCode returns the scan code for a ticket. The output uses only
// uppercase letters, digits and '-', which keeps QR symbols in the dense
// alphanumeric mode.
func (d *CodeDeriver) TicketCode(ticketID, eventID, userID string) string {
	h, err := blake2b.New256(d.key)
	if err != nil {
		// key is always 32 bytes
		panic(err)
	}
	h.Write([]byte(strings.Join([]string{"ticket", ticketID, eventID, userID}, ":")))
	sum := h.Sum(nil)
	return TicketCodePrefix + codeEncoding.EncodeToString(sum[:20])
}
