package util

import (
	"crypto/rand"
	"math/big"
)

const widgetCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const widgetCodeLength = 13

// GenerateWidgetCode creates a new public widget code of the form
// "widget_<13 base36 chars>". Codes are opaque: they carry no tenant
// information and are safe to embed in third-party pages.
func GenerateWidgetCode() (string, error) {
	buf := make([]byte, widgetCodeLength)
	max := big.NewInt(int64(len(widgetCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = widgetCodeAlphabet[n.Int64()]
	}
	return "widget_" + string(buf), nil
}
