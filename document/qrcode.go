package document

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// CodeGenerator renders a text payload as a PNG image.
type CodeGenerator interface {
	Generate(content string) ([]byte, error)
}

// DefaultQRSize is the side of generated QR codes, in pixels.
const DefaultQRSize = 256

// QRCode generates QR codes.
type QRCode struct {
	Size int // in pixels, DefaultQRSize if zero
}

func (q QRCode) Generate(content string) ([]byte, error) {
	size := q.Size
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("cannot generate qr code: %w", err)
	}
	return png, nil
}
