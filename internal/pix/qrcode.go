package pix

import (
	"fmt"
	"net/url"
	"strconv"
)

// QRCodeURL returns the image URL of a third-party QR renderer for payload.
func QRCodeURL(base, payload string, size int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse qr base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("qr base url %q must be absolute", base)
	}
	if size <= 0 {
		size = 300
	}
	dim := strconv.Itoa(size)
	q := u.Query()
	q.Set("size", dim+"x"+dim)
	q.Set("data", payload)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
