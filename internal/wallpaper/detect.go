// Package wallpaper detects the running desktop and sets the wallpaper with
// the tool that desktop expects.
package wallpaper

import "strings"

// Environment looks up an environment variable, as os.LookupEnv does.
type Environment func(key string) (string, bool)

// Running reports whether a process with the given executable name exists.
type Running func(name string) bool

// sessionKeys are consulted in order once no known compositor is running.
var sessionKeys = []string{
	"XDG_CURRENT_DESKTOP",
	"DESKTOP_SESSION",
	"GNOME_DESKTOP_SESSION_ID",
	"MATE_DESKTOP_SESSION_ID",
	"DESKTOP_STARTUP_ID",
	"WAYLAND_DISPLAY",
}

// DetectDesktop names the current desktop, or returns "" when it cannot be
// determined. Running window managers win over session variables.
func DetectDesktop(env Environment, running Running) string {
	set := func(key string) bool {
		v, ok := env(key)
		return ok && v != ""
	}

	switch {
	case set("SWAYSOCK") || running("sway"):
		return "SWAY"
	case running("Hyprland") || set("HYPRLAND_INSTANCE_SIGNATURE"):
		return "HYPRLAND"
	case running("i3") || set("I3SOCK"):
		return "I3"
	case running("bspwm"):
		return "BSPWM"
	case running("qtile"):
		return "QTILE"
	}

	for _, key := range sessionKeys {
		v, ok := env(key)
		if !ok || v == "" {
			continue
		}
		switch key {
		case "DESKTOP_STARTUP_ID":
			if strings.Contains(v, "awesome") {
				return "AWESOME"
			}
		case "WAYLAND_DISPLAY":
			if set("XDG_CURRENT_DESKTOP") {
				desktop, _ := env("XDG_CURRENT_DESKTOP")
				return desktop
			}
			return "WAYLAND"
		}
		return v
	}
	return ""
}
