package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocrm/internal/domain/entity"
)

func TestGenerateContactQR(t *testing.T) {
	t.Parallel()

	svc := NewQRCodeService(256, "M")
	customer := &entity.Customer{
		Name:     "Nguyễn Văn Tèo",
		Phone:    "0912345678",
		Interest: "VF 8",
	}

	png, err := svc.GenerateContactQR(customer)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic header.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestBuildVCard(t *testing.T) {
	t.Parallel()

	card := buildVCard(&entity.Customer{
		Name:           "A; B, C",
		Phone:          "0912345678",
		SecondaryPhone: "0987654321",
		Email:          "teo@example.com",
	})

	assert.Contains(t, card, "BEGIN:VCARD")
	assert.Contains(t, card, "FN:A\\; B\\, C")
	assert.Contains(t, card, "TEL;TYPE=CELL:0912345678")
	assert.Contains(t, card, "TEL;TYPE=HOME:0987654321")
	assert.Contains(t, card, "EMAIL:teo@example.com")
	assert.Contains(t, card, "END:VCARD")
}
