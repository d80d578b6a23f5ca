package security

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestValidateFilePath(t *testing.T) {
	base := filepath.Join(t.TempDir(), "wal")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "plain name", path: "colors.sh", wantErr: false},
		{name: "nested", path: "kitty/colors.conf", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "parent traversal", path: "../colors", wantErr: true},
		{name: "absolute", path: "/etc/passwd", wantErr: true},
		{name: "dot", path: ".", wantErr: true},
		{name: "hidden dots in name", path: "colors..bak", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.path, base)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsafePath) {
				t.Errorf("ValidateFilePath(%q) error = %v, want ErrUnsafePath", tt.path, err)
			}
		})
	}
}

func TestSafeUint8(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{-5, 0},
		{0, 0},
		{128, 128},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := SafeUint8(tt.in); got != tt.want {
			t.Errorf("SafeUint8(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLimitedReader(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 64)

	out, err := io.ReadAll(NewLimitedReader(bytes.NewReader(data), 128))
	if err != nil {
		t.Fatalf("unexpected error under limit: %v", err)
	}
	if len(out) != len(data) {
		t.Errorf("read %d bytes, want %d", len(out), len(data))
	}

	if _, err := io.ReadAll(NewLimitedReader(bytes.NewReader(data), 16)); !errors.Is(err, ErrSizeLimit) {
		t.Errorf("error = %v, want ErrSizeLimit", err)
	}
}
