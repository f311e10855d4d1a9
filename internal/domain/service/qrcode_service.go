package service

// QRCodeService generates QR codes for sharing guest invites.
type QRCodeService interface {
	// GuestInviteQR renders the guest authorization URL as a PNG QR code.
	GuestInviteQR(authorizeURL string) ([]byte, error)
}
