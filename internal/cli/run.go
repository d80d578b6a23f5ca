package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/walrus/internal/colour"
	"github.com/jmylchreest/walrus/internal/image"
	"github.com/jmylchreest/walrus/internal/reload"
	"github.com/jmylchreest/walrus/internal/scheme"
	"github.com/jmylchreest/walrus/internal/template"
	"github.com/jmylchreest/walrus/internal/theme"
	"github.com/jmylchreest/walrus/internal/util/imagecache"
	"github.com/jmylchreest/walrus/internal/wallpaper"
)

// listThemes is the --theme value that lists themes instead of applying one.
const listThemes = "themes"

// noWallpaper fills {wallpaper} when a theme is applied.
const noWallpaper = "None"

// run dispatches to one action. Earlier actions win when several flags are
// given.
func (a *app) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	switch {
	case a.opts.completion:
		return a.installCompletions(cmd.Root())
	case a.cfg.Backend == colour.BackendList:
		printBackends(out)
		return nil
	case a.opts.reload:
		return a.reloader().All(true)
	case a.opts.reloadNoWP:
		return a.reloader().All(false)
	case a.opts.theme == listThemes:
		return a.printThemes(out)
	case a.opts.theme != "":
		return a.applyTheme(a.opts.theme)
	case a.opts.generate != "":
		return a.saveTheme(a.opts.generate)
	case a.opts.image != "":
		return a.generateScheme(cmd.Context(), out)
	default:
		_ = cmd.Help()
		return errNoInput
	}
}

func (a *app) generateScheme(ctx context.Context, out io.Writer) error {
	path, err := a.resolveImage(ctx, a.opts.image)
	if err != nil {
		return err
	}
	a.logger.Debug("image resolved", "path", path)

	palette, err := scheme.Generate(path, scheme.Options{
		Backend:    a.cfg.Backend,
		Brightness: a.cfg.Brightness,
		Saturation: a.cfg.Saturation,
		Seed:       &a.cfg.Seed,
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}
	a.out.Info("Generate", "generate colors")

	if _, err := a.renderer().RenderAll(palette, path); err != nil {
		return err
	}
	a.out.Info("Template", "create templates")

	if err := a.reloader().All(true); err != nil {
		return err
	}

	if a.opts.preview && !a.out.Quiet() {
		fmt.Fprint(out, colour.PreviewPalette(palette))
	}
	if !a.out.Quiet() && a.isTTY() {
		fmt.Fprintln(out, colour.Swatch())
	}
	return nil
}

// resolveImage turns the -i argument into a local image file. URLs are
// downloaded into the image cache and directories yield a random image.
func (a *app) resolveImage(ctx context.Context, arg string) (string, error) {
	if imagecache.IsRemote(arg) {
		path, err := imagecache.DownloadAndCache(ctx, arg, imagecache.CacheOptions{
			CacheDir: imagecache.Dir(a.cfg.CacheDir),
			Logger:   a.logger,
		})
		if err != nil {
			return "", err
		}
		a.out.Info("Image", "using downloaded image")
		return path, nil
	}

	path, err := image.ResolveImagePath(arg)
	if err != nil {
		return "", fmt.Errorf("image does not exist: %w", err)
	}
	return path, nil
}

func (a *app) applyTheme(name string) error {
	palette, err := a.themes().Load(name)
	if err != nil {
		return err
	}
	if _, err := a.renderer().RenderAll(palette, noWallpaper); err != nil {
		return err
	}
	return a.reloader().All(false)
}

func (a *app) saveTheme(name string) error {
	path, err := a.themes().SaveCurrent(name)
	if err != nil {
		return err
	}
	a.logger.Debug("theme saved", "path", path)
	a.out.Info("Generate", "generate colors")
	return nil
}

func (a *app) printThemes(out io.Writer) error {
	store := a.themes()
	for _, v := range theme.Variants() {
		names, err := store.List(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s]\n", groupTag(v.Title()))
		for _, name := range names {
			fmt.Fprintf(out, "    -%s\n", name)
		}
	}
	return nil
}

func (a *app) installCompletions(root *cobra.Command) error {
	home, err := a.home()
	if err != nil {
		return fmt.Errorf("failed to install completions: %w", err)
	}
	path, err := InstallCompletions(root, a.getenv("SHELL"), home)
	if err != nil {
		return err
	}
	a.logger.Debug("completions written", "path", path)
	a.out.Info("Completions", "completions installed successfully!")
	return nil
}

func printBackends(out io.Writer) {
	table := NewTable("Backend", "Description")
	for _, b := range colour.ValidBackends() {
		table.AddRow(string(b), b.Description())
	}
	fmt.Fprint(out, table.Render())
}

func (a *app) themes() theme.Store {
	return theme.Store{
		ConfigDir: a.cfg.ConfigDir,
		CacheDir:  a.cfg.CacheDir,
		SystemDir: a.cfg.SystemDir,
	}
}

func (a *app) renderer() *template.Renderer {
	loader := template.NewLoader(a.cfg.TemplateDir(), a.cfg.SystemTemplateDir(), a.logger)
	return template.NewRenderer(loader, a.cfg.WalDir(), a.logger)
}

func (a *app) reloader() *reload.Reloader {
	setter := wallpaper.NewSetter(a.out, a.logger, a.wallpaperOptions...)
	opts := append([]reload.Option{reload.WithWallpaperSetter(setter)}, a.reloadOptions...)
	return reload.New(a.cfg.WalDir(), a.out, a.logger, opts...)
}
