package static

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// IndexFile is served for directory requests.
const IndexFile = "index.html"

type config struct {
	param   string
	index   string
	exclude []string
}

// Option configures FS, Dir and SPA.
type Option func(*config)

// WithParam sets the wildcard parameter holding the file name. Default "*".
func WithParam(name string) Option {
	return func(c *config) { c.param = name }
}

// WithIndex sets the SPA entry document. Default index.html.
func WithIndex(name string) Option {
	return func(c *config) { c.index = name }
}

// WithExclude lists wildcard prefixes for which SPA answers 404 instead of
// the entry document, such as "api/".
func WithExclude(prefixes ...string) Option {
	return func(c *config) { c.exclude = prefixes }
}

func newConfig(opts []Option) config {
	c := config{param: "*", index: IndexFile}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// FS serves files from fsys.
func FS[C handler.Context](fsys fs.FS, opts ...Option) handler.HandlerFunc[C] {
	if fsys == nil {
		panic("static: nil filesystem")
	}
	cfg := newConfig(opts)

	return func(ctx C) handler.Response {
		name, ok := fileName(ctx.Param(cfg.param))
		if !ok {
			return response.Error(response.ErrNotFound)
		}
		return serve(fsys, name)
	}
}

// Dir serves files below root. It panics if root is not a directory.
func Dir[C handler.Context](root string, opts ...Option) handler.HandlerFunc[C] {
	root = filepath.Clean(root)
	if err := mustExist(root, true); err != nil {
		panic("static.Dir: " + err.Error())
	}
	return FS[C](os.DirFS(root), opts...)
}

// File serves a single file. It panics if filePath is missing or a directory.
func File[C handler.Context](filePath string) handler.HandlerFunc[C] {
	filePath = filepath.Clean(filePath)
	if err := mustExist(filePath, false); err != nil {
		panic("static.File: " + err.Error())
	}
	dir, name := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)

	return func(C) handler.Response {
		return serve(fsys, name)
	}
}

// SPA serves files from fsys and answers every other path with the entry
// document so a client-side router can take over. It panics if the entry
// document is missing.
func SPA[C handler.Context](fsys fs.FS, opts ...Option) handler.HandlerFunc[C] {
	if fsys == nil {
		panic("static: nil filesystem")
	}
	cfg := newConfig(opts)
	if st, err := fs.Stat(fsys, cfg.index); err != nil || st.IsDir() {
		panic("static.SPA: entry document not found: " + cfg.index)
	}

	return func(ctx C) handler.Response {
		raw := ctx.Param(cfg.param)
		for _, prefix := range cfg.exclude {
			if strings.HasPrefix(strings.TrimPrefix(raw, "/"), prefix) {
				return response.Error(response.ErrNotFound)
			}
		}
		if name, ok := fileName(raw); ok && name != "." {
			if st, err := fs.Stat(fsys, name); err == nil && !st.IsDir() {
				return serve(fsys, name)
			}
		}
		return serve(fsys, cfg.index)
	}
}

// fileName turns a wildcard capture into an fs.FS name. Paths escaping the
// root are rejected.
func fileName(raw string) (string, bool) {
	if strings.Contains(raw, "\\") || strings.ContainsRune(raw, 0) {
		return "", false
	}
	for seg := range strings.SplitSeq(raw, "/") {
		if seg == ".." {
			return "", false
		}
	}
	name := strings.TrimPrefix(path.Clean("/"+raw), "/")
	if name == "" {
		name = "."
	}
	return name, fs.ValidPath(name)
}

func serve(fsys fs.FS, name string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		f, st, err := open(fsys, name)
		if err != nil {
			return response.ErrNotFound
		}
		defer f.Close()

		rs, ok := f.(io.ReadSeeker)
		if !ok {
			b, err := io.ReadAll(f)
			if err != nil {
				return err
			}
			rs = bytes.NewReader(b)
		}
		http.ServeContent(w, r, st.Name(), st.ModTime(), rs)
		return nil
	}
}

// open resolves directories to their index file.
func open(fsys fs.FS, name string) (fs.File, fs.FileInfo, error) {
	for range 2 {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, nil, err
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		if !st.IsDir() {
			return f, st, nil
		}
		_ = f.Close()
		name = path.Join(name, IndexFile)
	}
	return nil, nil, fs.ErrNotExist
}

func mustExist(p string, dir bool) error {
	st, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.New("path does not exist: " + p)
	case err != nil:
		return err
	case dir && !st.IsDir():
		return errors.New("not a directory: " + p)
	case !dir && st.IsDir():
		return errors.New("is a directory: " + p)
	}
	return nil
}
