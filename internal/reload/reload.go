// Package reload applies the current scheme to running programs: terminals,
// the X resource database, kitty, polybar, i3 and bspwm.
package reload

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/jmylchreest/walrus/internal/theme"
	"github.com/jmylchreest/walrus/internal/util"
)

// Reporter receives user-facing status lines.
type Reporter interface {
	Info(title, message string)
	Warn(title, message string)
}

// WallpaperSetter sets the desktop wallpaper.
type WallpaperSetter interface {
	Set(path string) error
}

// Reloader applies the scheme stored in the wal directory.
type Reloader struct {
	walDir    string
	ptsDir    string
	wallpaper WallpaperSetter
	reporter  Reporter
	runner    util.Runner
	find      util.ProcessFinder
	signal    func(pid int) error
	isTTY     func() bool
	logger    hclog.Logger
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithPtsDir overrides the pseudo terminal directory.
func WithPtsDir(dir string) Option {
	return func(r *Reloader) { r.ptsDir = dir }
}

// WithWallpaperSetter sets the wallpaper backend used by All(true).
func WithWallpaperSetter(w WallpaperSetter) Option {
	return func(r *Reloader) { r.wallpaper = w }
}

// WithRunner overrides command execution.
func WithRunner(runner util.Runner) Option {
	return func(r *Reloader) { r.runner = runner }
}

// WithProcessFinder overrides process discovery.
func WithProcessFinder(find util.ProcessFinder) Option {
	return func(r *Reloader) { r.find = find }
}

// WithSignal overrides how reload signals are delivered.
func WithSignal(signal func(pid int) error) Option {
	return func(r *Reloader) { r.signal = signal }
}

// WithTTYCheck overrides detection of an attached terminal.
func WithTTYCheck(isTTY func() bool) Option {
	return func(r *Reloader) { r.isTTY = isTTY }
}

// New creates a Reloader for the given wal directory.
func New(walDir string, reporter Reporter, logger hclog.Logger, opts ...Option) *Reloader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Reloader{
		walDir:   walDir,
		ptsDir:   DefaultPtsDir,
		reporter: reporter,
		runner:   util.ExecRunner{},
		find:     util.FindProcesses,
		signal:   signalReload,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		logger:   logger.Named("reload"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// All applies the current scheme everywhere. With setWallpaper the wallpaper
// recorded by the wal template is set first. Individual integrations never
// abort the run; only a missing scheme is an error.
func (r *Reloader) All(setWallpaper bool) error {
	palette, err := theme.ParseFile(filepath.Join(r.walDir, "colors"))
	if err != nil {
		return err
	}

	if setWallpaper {
		if err := r.setWallpaper(); err != nil {
			r.warn("Wallpaper", err.Error())
		}
	}

	if n, err := Broadcast(r.ptsDir, palette); err != nil {
		r.warn("Terminal", err.Error())
	} else {
		r.logger.Debug("sequences broadcast", "terminals", n)
		r.info("Terminal", "terminal colorscheme set")
	}

	r.xrdb()
	r.kitty()
	r.windowManager("i3", "i3", "i3-msg", "reload")
	r.windowManager("bspwm", "Bspwm", "bspc", "wm", "-r")
	r.signalAll("polybar", "Polybar")
	r.tty()

	r.info("Colors", "colorscheme applied successfully")
	return nil
}

// Wallpaper returns the wallpaper path recorded in the wal directory.
func (r *Reloader) Wallpaper() (string, error) {
	f, err := os.Open(filepath.Join(r.walDir, "wal"))
	if err != nil {
		return "", fmt.Errorf("can't read the wallpaper path: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if path := strings.TrimSpace(scanner.Text()); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("no wallpaper recorded in %s", f.Name())
}

func (r *Reloader) setWallpaper() error {
	if r.wallpaper == nil {
		return fmt.Errorf("no wallpaper setter configured")
	}
	path, err := r.Wallpaper()
	if err != nil {
		return err
	}
	return r.wallpaper.Set(path)
}

func (r *Reloader) xrdb() {
	if _, err := r.runner.LookPath("xrdb"); err != nil {
		return
	}
	file := filepath.Join(r.walDir, "colors.Xresources")
	if err := r.runner.Run("xrdb", "-merge", "-quiet", file); err != nil {
		r.logger.Debug("xrdb failed", "error", err)
		r.warn("Xrdb", "xrdb merge failed")
		return
	}
	r.info("Xrdb", "xrdb colorscheme set")
}

// kitty prefers remote control and falls back to a reload signal.
func (r *Reloader) kitty() {
	pids := r.running("kitty")
	if len(pids) == 0 {
		return
	}
	if _, err := r.runner.LookPath("kitty"); err == nil {
		conf := filepath.Join(r.walDir, "colors-kitty.conf")
		if err := r.runner.Run("kitty", "@", "set-colors", "--all", conf); err == nil {
			r.info("Kitty", "kitty colorscheme set")
			return
		}
	}
	r.signalAll("kitty", "Kitty")
}

func (r *Reloader) windowManager(process, title, name string, args ...string) {
	if len(r.running(process)) == 0 {
		return
	}
	if err := r.runner.Run(name, args...); err != nil {
		r.logger.Debug("window manager reload failed", "command", name, "error", err)
		r.warn(title, fmt.Sprintf("%s reload failed", process))
		return
	}
	r.info(title, fmt.Sprintf("%s colorscheme set", process))
}

func (r *Reloader) signalAll(process, title string) {
	pids := r.running(process)
	if len(pids) == 0 {
		return
	}
	for _, pid := range pids {
		if err := r.signal(pid); err != nil {
			r.logger.Debug("signal failed", "process", process, "error", err)
			r.warn(title, fmt.Sprintf("can't reload %s", process))
			return
		}
	}
	r.info(title, fmt.Sprintf("%s colorscheme set", process))
}

func (r *Reloader) tty() {
	if !r.isTTY() {
		return
	}
	script := filepath.Join(r.walDir, "colors-tty.sh")
	if _, err := os.Stat(script); err != nil {
		return
	}
	if err := r.runner.Run("sh", script); err != nil {
		r.logger.Debug("tty script failed", "error", err)
	}
}

func (r *Reloader) running(process string) []int {
	pids, err := r.find(process)
	if err != nil {
		r.logger.Debug("process lookup failed", "process", process, "error", err)
		return nil
	}
	return pids
}

func (r *Reloader) info(title, message string) {
	if r.reporter != nil {
		r.reporter.Info(title, message)
	}
}

func (r *Reloader) warn(title, message string) {
	if r.reporter != nil {
		r.reporter.Warn(title, message)
	}
}
