package entity

import "strings"

// DeviceClass identifies the device category an interaction happened on.
type DeviceClass string

const (
	DeviceUnspecified DeviceClass = ""
	DeviceDesktop     DeviceClass = "desktop"
	DeviceTablet      DeviceClass = "tablet"
	DeviceMobile      DeviceClass = "mobile"
)

// NormalizeDevice ensures the device falls back to a supported value.
func NormalizeDevice(device DeviceClass) DeviceClass {
	switch device {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return device
	default:
		return DeviceUnspecified
	}
}

// ParseDevice converts an arbitrary string into a supported DeviceClass value.
func ParseDevice(raw string) DeviceClass {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "desktop", "laptop":
		return DeviceDesktop
	case "tablet":
		return DeviceTablet
	case "mobile", "phone":
		return DeviceMobile
	default:
		return DeviceUnspecified
	}
}

// NormalizeConceptToken lowercases and trims a concept identifier.
func NormalizeConceptToken(concept string) string {
	trimmed := strings.TrimSpace(concept)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

// Clamp01 bounds v to the unit interval.
func Clamp01(v float64) float64 {
	return ClampRange(v, 0, 1)
}

// ClampRange bounds v to [lo, hi].
func ClampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
