package wallpaper

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func envOf(vars map[string]string) Environment {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func runningOf(names ...string) Running {
	return func(name string) bool { return slices.Contains(names, name) }
}

func TestDetectDesktop(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		running []string
		want    string
	}{
		{name: "sway socket", env: map[string]string{"SWAYSOCK": "/run/sway.sock", "XDG_CURRENT_DESKTOP": "GNOME"}, want: "SWAY"},
		{name: "hyprland process", running: []string{"Hyprland"}, want: "HYPRLAND"},
		{name: "hyprland signature", env: map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc"}, want: "HYPRLAND"},
		{name: "i3 socket", env: map[string]string{"I3SOCK": "/tmp/i3"}, want: "I3"},
		{name: "bspwm", running: []string{"bspwm"}, want: "BSPWM"},
		{name: "qtile", running: []string{"qtile"}, want: "QTILE"},
		{name: "xdg current desktop", env: map[string]string{"XDG_CURRENT_DESKTOP": "KDE"}, want: "KDE"},
		{name: "desktop session", env: map[string]string{"DESKTOP_SESSION": "xfce"}, want: "xfce"},
		{name: "awesome startup id", env: map[string]string{"DESKTOP_STARTUP_ID": "awesome/123"}, want: "AWESOME"},
		{name: "wayland only", env: map[string]string{"WAYLAND_DISPLAY": "wayland-1"}, want: "WAYLAND"},
		{name: "empty values skipped", env: map[string]string{"XDG_CURRENT_DESKTOP": "", "DESKTOP_SESSION": "mate"}, want: "mate"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDesktop(envOf(tt.env), runningOf(tt.running...)); got != tt.want {
				t.Errorf("DetectDesktop() = %q, want %q", got, tt.want)
			}
		})
	}
}

type fakeRunner struct {
	available map[string]bool
	output    map[string]string
	started   []string
	failStart bool
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) Run(name string, args ...string) error {
	if f.available[name] {
		return nil
	}
	return errors.New("not found")
}

func (f *fakeRunner) Start(name string, args ...string) error {
	f.started = append(f.started, strings.Join(append([]string{name}, args...), " "))
	if f.failStart {
		return errors.New("exit status 1")
	}
	return nil
}

func (f *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	if out, ok := f.output[name]; ok {
		return []byte(out), nil
	}
	return nil, errors.New("not found")
}

type fakeReporter struct{ infos, warns []string }

func (r *fakeReporter) Info(title, message string) { r.infos = append(r.infos, title+": "+message) }
func (r *fakeReporter) Warn(title, message string) { r.warns = append(r.warns, title+": "+message) }

func noProcesses(string) ([]int, error) { return nil, nil }

func testImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wall.png")
	if err := os.WriteFile(path, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestSetter(runner *fakeRunner, env map[string]string) (*Setter, *fakeReporter) {
	rep := &fakeReporter{}
	s := NewSetter(rep, nil,
		WithRunner(runner),
		WithProcessFinder(noProcesses),
		WithEnvironment(envOf(env)),
		WithSleep(func(time.Duration) {}),
	)
	return s, rep
}

func TestSetPerDesktop(t *testing.T) {
	img := testImage(t)

	tests := []struct {
		name      string
		env       map[string]string
		available []string
		output    map[string]string
		want      []string
	}{
		{
			name:      "gnome with dark variant",
			env:       map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"},
			available: []string{"gsettings"},
			want: []string{
				"gsettings set org.gnome.desktop.background picture-uri file://" + img,
				"gsettings set org.gnome.desktop.background picture-uri-dark file://" + img,
			},
		},
		{
			name:      "kde",
			env:       map[string]string{"XDG_CURRENT_DESKTOP": "KDE"},
			available: []string{"plasma-apply-wallpaperimage"},
			want:      []string{"plasma-apply-wallpaperimage " + img},
		},
		{
			name: "xfce lists monitors",
			env:  map[string]string{"XDG_CURRENT_DESKTOP": "XFCE"},
			output: map[string]string{"xfconf-query": "/backdrop/screen0/monitorDP-1/workspace0/last-image\n" +
				"/backdrop/screen0/monitorDP-1/workspace0/color-style\n"},
			want: []string{"xfconf-query --channel xfce4-desktop --property /backdrop/screen0/monitorDP-1/workspace0/last-image --set " + img},
		},
		{
			name:      "hyprland prefers swww",
			env:       map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "x"},
			available: []string{"swww", "swaybg"},
			want: []string{
				"swww-daemon",
				"swww img " + img + " --transition-type fade --transition-fps 60",
			},
		},
		{
			name:      "sway falls back to swaybg",
			env:       map[string]string{"SWAYSOCK": "/run/sway"},
			available: []string{"swaybg"},
			want:      []string{"swaybg -i " + img + " -m fill"},
		},
		{
			name:      "i3 uses feh",
			env:       map[string]string{"I3SOCK": "/tmp/i3"},
			available: []string{"feh", "nitrogen"},
			want:      []string{"feh --no-fehbg --bg-fill " + img},
		},
		{
			name:      "unknown desktop uses generic tools",
			env:       map[string]string{"XDG_CURRENT_DESKTOP": "weird"},
			available: []string{"xwallpaper"},
			want:      []string{"xwallpaper --zoom " + img},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available := map[string]bool{}
			for _, name := range tt.available {
				available[name] = true
			}
			runner := &fakeRunner{available: available, output: tt.output}
			s, rep := newTestSetter(runner, tt.env)

			if err := s.Set(img); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !slices.Equal(runner.started, tt.want) {
				t.Errorf("started = %q, want %q", runner.started, tt.want)
			}
			if len(rep.infos) == 0 {
				t.Error("Set() reported nothing")
			}
		})
	}
}

func TestSetNoTool(t *testing.T) {
	img := testImage(t)

	s, _ := newTestSetter(&fakeRunner{}, map[string]string{"SWAYSOCK": "/run/sway"})
	if err := s.Set(img); !errors.Is(err, ErrNoSetter) {
		t.Errorf("Set() on sway without tools error = %v, want ErrNoSetter", err)
	}

	s, _ = newTestSetter(&fakeRunner{}, nil)
	if err := s.Set(img); !errors.Is(err, ErrNoSetter) {
		t.Errorf("Set() without tools error = %v, want ErrNoSetter", err)
	}
}

func TestSetXsetrootWarns(t *testing.T) {
	img := testImage(t)
	runner := &fakeRunner{available: map[string]bool{"xsetroot": true}}
	s, rep := newTestSetter(runner, map[string]string{"DESKTOP_SESSION": "bspwm"})

	if err := s.Set(img); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if len(rep.warns) != 1 {
		t.Errorf("warnings = %v, want one", rep.warns)
	}
}

func TestSetCommandFailure(t *testing.T) {
	img := testImage(t)
	runner := &fakeRunner{available: map[string]bool{"plasma-apply-wallpaperimage": true}, failStart: true}
	s, _ := newTestSetter(runner, map[string]string{"XDG_CURRENT_DESKTOP": "KDE"})

	if err := s.Set(img); err == nil {
		t.Error("Set() should fail when the tool fails")
	}
}

func TestSetInvalidPath(t *testing.T) {
	s, _ := newTestSetter(&fakeRunner{}, nil)
	if err := s.Set(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Set() should reject a missing file")
	}
	if err := s.Set(t.TempDir()); err == nil {
		t.Error("Set() should reject a directory")
	}
}
