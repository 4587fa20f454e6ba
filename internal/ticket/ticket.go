// Package ticket issues ticket identifiers and their QR payloads.
package ticket

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Prefix starts every ticket identifier.
const Prefix = "TKT"

// Crockford's alphabet leaves out I, L, O and U so hand-typed ids stay
// unambiguous.
var encoding = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// NewID returns a fresh ticket id such as TKT-8F3K-2MZQ-71VD-H0XA.
func NewID() string {
	u := uuid.New()
	// version and variant nibbles live in bytes 6 and 8; skip them
	var raw [10]byte
	copy(raw[:6], u[:6])
	copy(raw[6:], u[10:14])
	code := encoding.EncodeToString(raw[:])
	return fmt.Sprintf("%s-%s-%s-%s-%s", Prefix, code[0:4], code[4:8], code[8:12], code[12:16])
}

var folder = strings.NewReplacer("O", "0", "I", "1", "L", "1", " ", "")

// Normalize canonicalises a scanned or hand-typed ticket id. Case, spaces
// and dashes are ignored and look-alike letters fold to digits, so
// "tkt 8f3k2mzq71vdhoxa" becomes TKT-8F3K-2MZQ-71VD-H0XA. Input that is not
// shaped like a ticket id is returned folded but otherwise untouched.
func Normalize(id string) string {
	id = folder.Replace(strings.ToUpper(strings.TrimSpace(id)))
	code, ok := strings.CutPrefix(strings.ReplaceAll(id, "-", ""), Prefix)
	if !ok || len(code) != 16 {
		return id
	}
	if _, err := encoding.DecodeString(code); err != nil {
		return id
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s", Prefix, code[0:4], code[4:8], code[8:12], code[12:16])
}

// Encoder renders a ticket id as an image payload.
type Encoder interface {
	Encode(ticketID string) (string, error)
}

// QREncoder renders PNG QR codes as base64 data URIs.
type QREncoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewQREncoder returns an encoder with defaults suitable for phone screens.
func NewQREncoder() *QREncoder {
	return &QREncoder{Size: 256, Level: qrcode.Medium}
}

// Encode returns a data URI whose QR content is exactly ticketID.
func (e *QREncoder) Encode(ticketID string) (string, error) {
	if ticketID == "" {
		return "", fmt.Errorf("ticket id is empty")
	}
	png, err := qrcode.Encode(ticketID, e.Level, e.Size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
