package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/walrus/internal/util"
)

// ErrNoSetter is returned when no wallpaper tool is available.
var ErrNoSetter = errors.New("can't find any app to set wallpaper")

// Reporter receives user-facing status lines.
type Reporter interface {
	Info(title, message string)
	Warn(title, message string)
}

// daemonStartDelay gives swww-daemon time to open its socket.
const daemonStartDelay = 500 * time.Millisecond

// Setter sets the wallpaper for the detected desktop.
type Setter struct {
	runner   util.Runner
	find     util.ProcessFinder
	env      Environment
	reporter Reporter
	sleep    func(time.Duration)
	logger   hclog.Logger
}

// Option configures a Setter.
type Option func(*Setter)

// WithRunner overrides command execution.
func WithRunner(r util.Runner) Option {
	return func(s *Setter) { s.runner = r }
}

// WithProcessFinder overrides process discovery.
func WithProcessFinder(find util.ProcessFinder) Option {
	return func(s *Setter) { s.find = find }
}

// WithEnvironment overrides environment lookups.
func WithEnvironment(env Environment) Option {
	return func(s *Setter) { s.env = env }
}

// WithSleep overrides waiting for daemons to start.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Setter) { s.sleep = sleep }
}

// NewSetter creates a wallpaper setter.
func NewSetter(reporter Reporter, logger hclog.Logger, opts ...Option) *Setter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Setter{
		runner:   util.ExecRunner{},
		find:     util.FindProcesses,
		env:      os.LookupEnv,
		reporter: reporter,
		sleep:    time.Sleep,
		logger:   logger.Named("wallpaper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set makes path the wallpaper of the current desktop.
func (s *Setter) Set(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("invalid image path: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	desktop := DetectDesktop(s.env, s.running)
	if desktop == "" {
		s.warn("Desktop", "could not detect desktop environment, using generic tools")
		return s.windowManager(abs)
	}
	s.logger.Debug("desktop detected", "desktop", desktop)
	return s.setFor(strings.ToLower(desktop), abs)
}

func (s *Setter) running(name string) bool {
	return util.IsRunning(s.find, name)
}

func (s *Setter) has(name string) bool {
	_, err := s.runner.LookPath(name)
	return err == nil
}

// rule maps desktop name fragments to a setter.
type rule struct {
	keys []string
	set  func(s *Setter, path string) error
}

var rules = []rule{
	{[]string{"hyprland"}, func(s *Setter, p string) error { return s.wayland(p, "Hyprland", "swww", "hyprpaper", "swaybg", "wbg") }},
	{[]string{"xfce", "xubuntu"}, (*Setter).xfce},
	{[]string{"gnome", "unity", "ubuntu", "budgie"}, (*Setter).gnome},
	{[]string{"mate"}, func(s *Setter, p string) error {
		return s.start("MATE settings", "gsettings", "set", "org.mate.background", "picture-filename", p)
	}},
	{[]string{"cinnamon"}, func(s *Setter, p string) error {
		return s.start("Cinnamon settings", "gsettings", "set", "org.cinnamon.desktop.background", "picture-uri", fileURI(p))
	}},
	{[]string{"sway"}, func(s *Setter, p string) error { return s.wayland(p, "Sway", "swww", "swaybg") }},
	{[]string{"awesome"}, func(s *Setter, p string) error {
		return s.start("Awesome WM", "awesome-client", fmt.Sprintf("require('gears').wallpaper.maximized(%q)", p))
	}},
	{[]string{"kde", "plasma"}, func(s *Setter, p string) error {
		return s.start("KDE Plasma settings", "plasma-apply-wallpaperimage", p)
	}},
	{[]string{"i3", "bspwm", "qtile"}, (*Setter).windowManager},
	{[]string{"wayfire"}, func(s *Setter, p string) error { return s.wayland(p, "Wayfire", "wbg", "swaybg") }},
	{[]string{"river"}, func(s *Setter, p string) error { return s.wayland(p, "River", "wbg", "swaybg") }},
	{[]string{"fht"}, func(s *Setter, p string) error { return s.wayland(p, "fht-compositor", "swaybg", "wbg", "swww") }},
	{[]string{"wayland"}, func(s *Setter, p string) error { return s.wayland(p, "Wayland", "swww", "swaybg", "wbg") }},
	{[]string{"deepin"}, func(s *Setter, p string) error {
		return s.start("Deepin settings", "gsettings", "set", "com.deepin.wrap.gnome.desktop.background", "picture-uri", fileURI(p))
	}},
	{[]string{"lxqt"}, func(s *Setter, p string) error {
		return s.start("LXQt settings", "pcmanfm-qt", "--set-wallpaper="+p)
	}},
	{[]string{"lxde"}, func(s *Setter, p string) error {
		return s.start("LXDE settings", "pcmanfm", "--set-wallpaper="+p)
	}},
	{[]string{"enlightenment", "e17", "e16"}, func(s *Setter, p string) error {
		if s.has("enlightenment_remote") {
			return s.start("Enlightenment", "enlightenment_remote", "-desktop-bg-add", "0", "0", "0", "0", p)
		}
		return s.windowManager(p)
	}},
}

func (s *Setter) setFor(desktop, path string) error {
	for _, r := range rules {
		for _, key := range r.keys {
			if strings.Contains(desktop, key) {
				return r.set(s, path)
			}
		}
	}
	s.info("Wallpaper", fmt.Sprintf("unknown desktop environment: %s, trying generic tools", desktop))
	return s.windowManager(path)
}

// wayland tries each tool in order.
func (s *Setter) wayland(path, desktop string, tools ...string) error {
	for _, tool := range tools {
		if !s.has(tool) {
			continue
		}
		label := fmt.Sprintf("%s for %s", tool, desktop)
		switch tool {
		case "swww":
			if !s.running("swww-daemon") {
				if err := s.runner.Start("swww-daemon"); err != nil {
					s.logger.Debug("swww-daemon failed to start", "error", err)
				}
				s.sleep(daemonStartDelay)
			}
			return s.start(label, "swww", "img", path, "--transition-type", "fade", "--transition-fps", "60")
		case "hyprpaper":
			return s.start(label, "hyprctl", "hyprpaper", "reload", ","+path)
		case "swaybg":
			s.stopAll("swaybg")
			return s.start(label, "swaybg", "-i", path, "-m", "fill")
		case "wbg":
			s.stopAll("wbg")
			return s.start(label, "wbg", path)
		}
	}
	return fmt.Errorf("%w for %s (try installing %s)", ErrNoSetter, desktop, strings.Join(tools, ", "))
}

func (s *Setter) xfce(path string) error {
	var props []string
	if out, err := s.runner.Output("xfconf-query", "-c", "xfce4-desktop", "-l"); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if line = strings.TrimSpace(line); strings.Contains(line, "last-image") {
				props = append(props, line)
			}
		}
	}
	if len(props) == 0 {
		props = []string{"/backdrop/screen0/monitor0/workspace0/last-image"}
	}
	for _, prop := range props {
		if err := s.runner.Start("xfconf-query", "--channel", "xfce4-desktop", "--property", prop, "--set", path); err != nil {
			return fmt.Errorf("xfconf-query failed: %w", err)
		}
	}
	s.info("Wallpaper", "wallpaper set with XFCE settings")
	return nil
}

func (s *Setter) gnome(path string) error {
	uri := fileURI(path)
	if err := s.runner.Start("gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri); err != nil {
		return fmt.Errorf("gsettings failed: %w", err)
	}
	// GNOME 42+ keeps a separate wallpaper for dark mode.
	if s.runner.Run("gsettings", "get", "org.gnome.desktop.background", "picture-uri-dark") == nil {
		if err := s.runner.Start("gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri); err != nil {
			return fmt.Errorf("gsettings failed: %w", err)
		}
	}
	s.info("Wallpaper", "wallpaper set with GNOME settings")
	return nil
}

// windowManager tries the generic X11 setters in order.
func (s *Setter) windowManager(path string) error {
	tools := []struct {
		name string
		args []string
	}{
		{"xwallpaper", []string{"--zoom", path}},
		{"feh", []string{"--no-fehbg", "--bg-fill", path}},
		{"hsetroot", []string{"-fill", path}},
		{"nitrogen", []string{"--set-zoom-fill", "--save", path}},
	}
	for _, t := range tools {
		if s.has(t.name) {
			return s.start(t.name, t.name, t.args...)
		}
	}
	if s.has("xsetroot") {
		s.warn("Wallpaper", "using xsetroot, but it does not support images properly")
		return s.start("xsetroot", "xsetroot", "-solid", "#000000")
	}
	return ErrNoSetter
}

func (s *Setter) start(label, name string, args ...string) error {
	if err := s.runner.Start(name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	s.info("Wallpaper", "wallpaper set with "+label)
	return nil
}

// stopAll terminates running instances of a long-lived wallpaper daemon.
func (s *Setter) stopAll(name string) {
	pids, err := s.find(name)
	if err != nil {
		return
	}
	for _, pid := range pids {
		if p, err := os.FindProcess(pid); err == nil {
			if err := p.Kill(); err != nil {
				s.logger.Debug("failed to stop process", "name", name, "pid", pid, "error", err)
			}
		}
	}
}

func fileURI(path string) string {
	return "file://" + path
}

func (s *Setter) info(title, message string) {
	if s.reporter != nil {
		s.reporter.Info(title, message)
	}
}

func (s *Setter) warn(title, message string) {
	if s.reporter != nil {
		s.reporter.Warn(title, message)
	}
}
