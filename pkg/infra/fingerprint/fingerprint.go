package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/gofiber/fiber/v2"
)

var ipHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

// Fingerprint identifies an anonymous client by network address and a
// normalized user agent, so minor browser updates keep the same identity.
type Fingerprint struct {
	IP      string
	Device  string
	OS      string
	Browser string
}

// ID is a stable digest of the fingerprint; raw addresses never leave the process.
func (f Fingerprint) ID() string {
	raw := strings.Join([]string{f.IP, f.Device, f.OS, f.Browser}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}

type Maker interface {
	MakeFingerprint(c *fiber.Ctx) Fingerprint
}

type maker struct {
	trustProxyHeaders bool
}

// NewMaker returns a Maker. With trustProxyHeaders the client address is read
// from the usual forwarding headers before falling back to the socket peer.
func NewMaker(trustProxyHeaders bool) Maker {
	return &maker{trustProxyHeaders: trustProxyHeaders}
}

func (m *maker) MakeFingerprint(c *fiber.Ctx) Fingerprint {
	fp := FromUserAgent(c.Get(fiber.HeaderUserAgent))
	fp.IP = m.clientIP(c)
	return fp
}

func (m *maker) clientIP(c *fiber.Ctx) string {
	if m.trustProxyHeaders {
		for _, header := range ipHeaders {
			value := c.Get(header)
			if value == "" {
				continue
			}
			ip := strings.TrimSpace(strings.Split(value, ",")[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	return strings.TrimSpace(c.IP())
}

// FromUserAgent fills the user agent part of a fingerprint.
func FromUserAgent(userAgent string) Fingerprint {
	ua := uasurfer.Parse(userAgent)
	return Fingerprint{
		Device:  deviceName(ua.DeviceType),
		OS:      fmt.Sprintf("%s %d", ua.OS.Name.String(), ua.OS.Version.Major),
		Browser: ua.Browser.Name.String(),
	}
}

func deviceName(d uasurfer.DeviceType) string {
	switch d {
	case uasurfer.DeviceComputer:
		return "Computer"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}
