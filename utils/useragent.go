package utils

import (
	"fmt"

	"github.com/mileusna/useragent"
)

// ParseUserAgent extracts browser, OS and device family from a raw
// User-Agent header.
func ParseUserAgent(rawUA string) (browser, os, device string) {
	ua := useragent.Parse(rawUA)

	browser = ua.Name
	if browser == "" {
		browser = "Unknown browser"
	}

	os = ua.OS
	if os == "" {
		os = "Unknown OS"
	}

	switch {
	case ua.Mobile:
		device = "Mobile"
	case ua.Tablet:
		device = "Tablet"
	case ua.Desktop:
		device = "Desktop"
	default:
		device = "Unknown device"
	}

	return browser, os, device
}

// SessionDeviceInfo builds the display string stored on a session record.
func SessionDeviceInfo(rawUA string) string {
	browser, os, device := ParseUserAgent(rawUA)
	return fmt.Sprintf("%s on %s (%s)", browser, os, device)
}
