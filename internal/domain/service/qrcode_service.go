package service

import (
	"autocrm/internal/domain/entity"
)

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GenerateContactQR renders a customer's contact card as a QR code PNG,
	// scannable by the rep's phone dialer.
	GenerateContactQR(customer *entity.Customer) ([]byte, error)
}
