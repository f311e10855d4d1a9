// Package qrcode renders guest-invite links as QR codes.
package qrcode

import (
	"github.com/skip2/go-qrcode"

	"plantcare/config"
	"plantcare/internal/domain/service"
	"plantcare/internal/errors"
)

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance from configuration.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultSize
	levelName := "M"
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		if cfg.QRCode.ErrorCorrectionLevel != "" {
			levelName = cfg.QRCode.ErrorCorrectionLevel
		}
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch levelName {
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

// GuestInviteQR renders the guest authorization URL as a PNG QR code.
func (s *qrcodeService) GuestInviteQR(authorizeURL string) ([]byte, error) {
	code, err := qrcode.New(authorizeURL, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := code.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
