package images_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/atollk/geoguessr-scripts/core/images"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		index int
		src   string
		want  string
	}{
		{0, "https://cdn.example.com/img/bollard.png", "image_0_bollard.png"},
		{3, "https://cdn.example.com/img/sign.jpg?w=640&q=75", "image_3_sign.jpg"},
		{1, "/local/pole.webp", "image_1_pole.webp"},
	}
	for _, tc := range cases {
		if got := images.Filename(tc.index, tc.src); got != tc.want {
			t.Errorf("Filename(%d, %q) = %q, want %q", tc.index, tc.src, got, tc.want)
		}
	}
}

// fakeDownloader serves canned bytes per URL and fails everything else.
type fakeDownloader struct {
	files map[string][]byte
}

func (f *fakeDownloader) Download(_ context.Context, url string) ([]byte, error) {
	data, ok := f.files[url]
	if !ok {
		return nil, fmt.Errorf("no such image %q", url)
	}
	return data, nil
}

func TestDownloadMaterializesFragmentImages(t *testing.T) {
	dl := &fakeDownloader{files: map[string][]byte{
		"https://cdn.example.com/a.png": []byte("aaa"),
		"https://cdn.example.com/c.png": []byte("ccc"),
	}}
	p := &images.Pipeline{Log: slog.New(slog.DiscardHandler), Downloader: dl}

	dir := t.TempDir()
	fragment := `<div>
<img src="https://cdn.example.com/a.png">
<img src="https://cdn.example.com/b.png">
<img src="https://cdn.example.com/c.png">
</div>`

	paths, err := p.Download(context.Background(), fragment, dir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	// b.png fails; the others keep their document-position names so
	// re-runs with partial failures stay stable.
	want := []string{
		filepath.Join(dir, "image_0_a.png"),
		filepath.Join(dir, "image_2_c.png"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths %v, want %d", len(paths), paths, len(want))
	}
	for i, path := range paths {
		if path != want[i] {
			t.Errorf("path %d = %q, want %q", i, path, want[i])
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if len(data) != 3 {
			t.Errorf("%s holds %d bytes, want 3", path, len(data))
		}
	}
}

func TestDownloadEmptyFragment(t *testing.T) {
	p := &images.Pipeline{Log: slog.New(slog.DiscardHandler), Downloader: &fakeDownloader{}}
	paths, err := p.Download(context.Background(), "<p>no images</p>", t.TempDir())
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("got %d paths, want 0", len(paths))
	}
}
