package netx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadToFile(t *testing.T) {
	body := []byte("\x89PNG\r\n\x1a\nimage-bytes")

	t.Run("follows redirect and writes file", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/uploads/a.png", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/bucket/a.png?X-Amz-Signature=abc", http.StatusFound)
		})
		mux.HandleFunc("/bucket/a.png", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(body)
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		dst := filepath.Join(t.TempDir(), "out", "a.png")
		n, err := DownloadToFile(t.Context(), ts.Client(), ts.URL+"/uploads/a.png", dst)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != int64(len(body)) {
			t.Fatalf("n = %d, want %d", n, len(body))
		}
		got, err := os.ReadFile(dst)
		if err != nil || string(got) != string(body) {
			t.Fatalf("file = %q, err=%v", got, err)
		}
	})

	t.Run("non-200 leaves nothing behind", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Image not found", http.StatusNotFound)
		}))
		defer ts.Close()

		dir := t.TempDir()
		_, err := DownloadToFile(t.Context(), ts.Client(), ts.URL, filepath.Join(dir, "x.png"))
		if err == nil {
			t.Fatal("expected error")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Fatalf("dir has %d entries, want 0", len(entries))
		}
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := DownloadToFile(t.Context(), http.DefaultClient, "://bad", filepath.Join(t.TempDir(), "x"))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
