package reload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jmylchreest/walrus/internal/colour"
)

// DefaultPtsDir is where pseudo terminals are exposed on Linux.
const DefaultPtsDir = "/dev/pts"

// specialSequences maps OSC codes for the dynamic colours to palette slots:
// foreground, background, cursor and the URxvt border.
var specialSequences = []struct {
	code int
	slot int
}{
	{10, 7},
	{11, 0},
	{12, 15},
	{708, 5},
}

// Sequences returns the escape sequences that set a terminal's colours to
// the palette: OSC 4 for each slot followed by the special colours.
func Sequences(p colour.Palette) []byte {
	var b bytes.Buffer
	for i, c := range p.Colours {
		fmt.Fprintf(&b, "\x1b]4;%d;%s\x1b\\", i, c.Hex())
	}
	for _, s := range specialSequences {
		fmt.Fprintf(&b, "\x1b]%d;%s\x1b\\", s.code, p.Colours[s.slot].Hex())
	}
	return b.Bytes()
}

// Broadcast writes the palette's sequences to every numbered terminal in
// ptsDir and returns how many terminals accepted them. Terminals that cannot
// be opened are skipped.
func Broadcast(ptsDir string, p colour.Palette) (int, error) {
	entries, err := os.ReadDir(ptsDir)
	if err != nil {
		return 0, fmt.Errorf("can't load terminals: %w", err)
	}

	seq := Sequences(p)
	written := 0
	for _, e := range entries {
		if _, err := strconv.Atoi(e.Name()); err != nil {
			continue
		}
		if writeTerminal(filepath.Join(ptsDir, e.Name()), seq) == nil {
			written++
		}
	}
	return written, nil
}

func writeTerminal(path string, seq []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0) // #nosec G304 - paths come from the pts directory listing
	if err != nil {
		return err
	}
	_, werr := f.Write(seq)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
