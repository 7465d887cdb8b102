package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/pip"
)

func TestBuild(t *testing.T) {
	idx := pip.ParseFreeze("requests==2.31.0\nNumPy==1.26.0\n")

	tests := []struct {
		name    string
		modules []string
		want    string
	}{
		{
			name:    "pinned and sorted",
			modules: []string{"requests", "numpy"},
			want:    "NumPy==1.26.0\nrequests==2.31.0",
		},
		{
			name:    "fallback to bare name",
			modules: []string{"requests", "internal_pkg"},
			want:    "internal_pkg\nrequests==2.31.0",
		},
		{
			name:    "byte order puts uppercase first",
			modules: []string{"zeta", "Alpha", "beta"},
			want:    "Alpha\nbeta\nzeta",
		},
		{
			name:    "duplicates collapse",
			modules: []string{"requests", "requests"},
			want:    "requests==2.31.0",
		},
		{
			name:    "empty",
			modules: nil,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(Build(tt.modules, idx)); got != tt.want {
				t.Errorf("Render(Build()) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_NilIndex(t *testing.T) {
	entries := Build([]string{"b", "a"}, nil)
	if got := Render(entries); got != "a\nb" {
		t.Errorf("Render() = %q", got)
	}
	if got := Unpinned(entries); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Unpinned() = %v", got)
	}
}

func TestUnpinned(t *testing.T) {
	idx := pip.ParseFreeze("requests==2.31.0\n")
	entries := Build([]string{"requests", "yaml"}, idx)
	if got := Unpinned(entries); !reflect.DeepEqual(got, []string{"yaml"}) {
		t.Errorf("Unpinned() = %v, want [yaml]", got)
	}
}

func TestWrite(t *testing.T) {
	mfs := core.NewMockFileSystem()
	mfs.SetFile("/project/requirements.txt", []byte("stale==0.1\nold\n"))

	entries := Build([]string{"requests"}, pip.ParseFreeze("requests==2.31.0"))
	if err := Write(context.Background(), mfs, "/project/requirements.txt", entries); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, ok := mfs.GetFile("/project/requirements.txt")
	if !ok {
		t.Fatal("manifest not written")
	}
	if string(got) != "requests==2.31.0" {
		t.Errorf("content = %q, want overwrite without trailing newline", got)
	}
}

func TestWrite_Error(t *testing.T) {
	mfs := core.NewMockFileSystem()
	mfs.WriteErr = errors.New("disk full")

	err := Write(context.Background(), mfs, "/project/requirements.txt", nil)
	if err == nil || !errors.Is(err, mfs.WriteErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestWrite_RealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	entries := Build([]string{"b", "a"}, nil)

	if err := Write(context.Background(), core.NewOSFileSystem(), path, entries); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb" {
		t.Errorf("content = %q", data)
	}
}
