package qrcode

import (
	"fmt"
	"strings"

	"autocrm/internal/domain/entity"
	"autocrm/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateContactQR renders a vCard for the customer so a rep can scan the
// lead straight into a phone's contact list.
func (s *qrcodeService) GenerateContactQR(customer *entity.Customer) ([]byte, error) {
	qrCode, err := qrcode.New(buildVCard(customer), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

func buildVCard(customer *entity.Customer) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	fmt.Fprintf(&b, "FN:%s\r\n", escapeVCard(customer.Name))
	fmt.Fprintf(&b, "TEL;TYPE=CELL:%s\r\n", customer.Phone)
	if customer.SecondaryPhone != "" {
		fmt.Fprintf(&b, "TEL;TYPE=HOME:%s\r\n", customer.SecondaryPhone)
	}
	if customer.Email != "" {
		fmt.Fprintf(&b, "EMAIL:%s\r\n", escapeVCard(customer.Email))
	}
	if customer.Interest != "" {
		fmt.Fprintf(&b, "NOTE:%s\r\n", escapeVCard("Quan tâm: "+customer.Interest))
	}
	b.WriteString("END:VCARD\r\n")

	return b.String()
}

func escapeVCard(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\n", "\\n", ",", "\\,", ";", "\\;")

	return replacer.Replace(s)
}
