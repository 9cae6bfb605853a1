package requestinfo

import (
	"strconv"
	"strings"

	"github.com/avct/uasurfer"
)

var deviceNames = map[uasurfer.DeviceType]string{
	uasurfer.DeviceComputer: "Desktop",
	uasurfer.DevicePhone:    "Phone",
	uasurfer.DeviceTablet:   "Tablet",
	uasurfer.DeviceConsole:  "Console",
	uasurfer.DeviceWearable: "Wearable",
	uasurfer.DeviceTV:       "TV",
}

// parseUA turns the raw headers into a UA.
func parseUA(header, acceptLang string) UA {
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}
	device, ok := deviceNames[u.DeviceType]
	if !ok {
		device = "Unknown"
	}
	return UA{
		Raw:         header,
		Browser:     strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:     version(u.Browser.Version),
		OS:          osName,
		OSVersion:   version(u.OS.Version),
		Device:      device,
		Platform:    strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}
}

// version renders major.minor.patch without trailing zero parts.
func version(v uasurfer.Version) string {
	parts := []int{v.Major, v.Minor, v.Patch}
	for len(parts) > 1 && parts[len(parts)-1] == 0 {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.Itoa(p)
	}
	return strings.Join(out, ".")
}

// primaryLang returns the first Accept-Language tag without its q-value.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
