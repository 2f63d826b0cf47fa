// Package cache implements C9: a named template registry that parses
// template source lazily from a search path and reloads it on demand when
// the backing file's modification time advances, grounded on the teacher's
// pagesImporter's name -> parsed-node map in pages.go.
package cache

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dpotapov/tagtpl/tagtpl"
)

// entry is one cached, compiled template plus the bookkeeping needed to
// decide whether it must be recompiled.
type entry struct {
	tmpl    *tagtpl.Template
	modTime time.Time
}

// Cache is a named, lazily-populated template registry (C9). A zero-value
// Cache is never valid; construct one with New.
type Cache struct {
	fsys fs.FS

	mu       sync.RWMutex
	entries  map[string]*entry
	registry *tagtpl.FuncRegistry

	noParse bool
	logger  *slog.Logger
}

// New returns a Cache that resolves template names beneath searchPath on
// the local filesystem. Functions registered via RegisterFunction are
// visible to every subsequent Parse call, including ones against templates
// already cached (§5: the registry is consulted at render time, not compile
// time). In no-parse mode (WithNoParse) Parse uses only the built-in
// functions; registered functions are not consulted there.
func New(searchPath string, opts ...Option) *Cache {
	c := &Cache{
		fsys:     os.DirFS(searchPath),
		entries:  make(map[string]*entry),
		registry: tagtpl.NewFuncRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterFunction installs a plain template function under name, visible
// to every template this Cache serves (C6).
func (c *Cache) RegisterFunction(name string, fn tagtpl.Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.Register(name, fn)
}

// RegisterFunctionFactory installs a closure-producing template function
// under name, visible to every template this Cache serves (C6).
func (c *Cache) RegisterFunctionFactory(name string, factory tagtpl.FuncFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.RegisterFactory(name, factory)
}

// Get returns the compiled template registered under name, parsing it from
// the search path on first use and reloading it whenever its mtime has
// advanced since the last load.
func (c *Cache) Get(name string) (*tagtpl.Template, error) {
	fsPath, err := cleanTemplateName(name)
	if err != nil {
		return nil, err
	}

	info, statErr := fs.Stat(c.fsys, fsPath)

	c.mu.RLock()
	e, cached := c.entries[name]
	c.mu.RUnlock()

	if cached {
		if statErr != nil {
			// §9: an I/O failure on reload is swallowed — keep serving the
			// last good compile.
			c.logger.Warn("suppressing template reload after stat error", "template", name, "error", statErr)
			return e.tmpl, nil
		}
		if !info.ModTime().After(e.modTime) {
			return e.tmpl, nil
		}
		c.logger.Info("reloading template", "template", name)
	}

	if statErr != nil {
		return nil, tagtpl.NewReadError(statErr, "stat template %q", name)
	}

	tmpl, err := c.load(fsPath)
	if err != nil {
		// A reload's SyntaxError must propagate even though the stale entry
		// is still sitting in the cache (§9); it is simply not replaced.
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = &entry{tmpl: tmpl, modTime: info.ModTime()}
	c.mu.Unlock()

	c.logger.Info("loaded template", "template", name)
	return tmpl, nil
}

// ReloadIfModified re-stats name's backing file and recompiles it if the
// mtime has advanced, returning whether a reload actually happened. It is
// the explicit form of the check Get performs implicitly on every call.
func (c *Cache) ReloadIfModified(name string) (bool, error) {
	fsPath, err := cleanTemplateName(name)
	if err != nil {
		return false, err
	}

	c.mu.RLock()
	e, cached := c.entries[name]
	c.mu.RUnlock()
	if !cached {
		_, err := c.Get(name)
		return err == nil, err
	}

	info, err := fs.Stat(c.fsys, fsPath)
	if err != nil {
		c.logger.Warn("suppressing template reload after stat error", "template", name, "error", err)
		return false, nil
	}
	if !info.ModTime().After(e.modTime) {
		return false, nil
	}

	tmpl, err := c.load(fsPath)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.entries[name] = &entry{tmpl: tmpl, modTime: info.ModTime()}
	c.mu.Unlock()
	c.logger.Info("reloaded template", "template", name)
	return true, nil
}

func (c *Cache) load(fsPath string) (*tagtpl.Template, error) {
	f, err := c.fsys.Open(fsPath)
	if err != nil {
		return nil, tagtpl.NewReadError(err, "open template %q", fsPath)
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return nil, tagtpl.NewReadError(err, "read template %q", fsPath)
	}

	return tagtpl.Compile(string(src), c.inlineResolver())
}

// ParseString compiles src directly for ad hoc templates; src itself is not
// read from the search path nor stored in the cache, though any
// {{ inline NAME }} directives in it are loaded through Get.
func (c *Cache) ParseString(src string) (*tagtpl.Template, error) {
	return tagtpl.Compile(src, c.inlineResolver())
}

// inlineResolver lets a compiled template's {{ inline NAME }} directives
// pull in other cached templates' node trees by name.
func (c *Cache) inlineResolver() tagtpl.InlineResolver {
	return func(name string) ([]tagtpl.Node, error) {
		tmpl, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		return tmpl.Nodes, nil
	}
}

// Parse loads (or reuses) the template registered under name and renders it
// against replacements. In no-parse mode (WithNoParse) result is the zero
// SafeString and noParse is populated instead; otherwise noParse is nil.
func (c *Cache) Parse(name string, replacements map[string]any) (result tagtpl.SafeString, noParse *tagtpl.NoParseResult, err error) {
	tmpl, err := c.Get(name)
	if err != nil {
		return tagtpl.SafeString{}, nil, err
	}
	c.mu.RLock()
	registry := c.registry
	noParseMode := c.noParse
	c.mu.RUnlock()

	if noParseMode {
		return tagtpl.SafeString{}, tmpl.RenderNoParse(name, replacements), nil
	}
	out, err := tmpl.Render(replacements, registry)
	return out, nil, err
}

// cleanTemplateName validates name as a relative, traversal-free path
// beneath the cache's search path (§6).
func cleanTemplateName(name string) (string, error) {
	if name == "" {
		return "", tagtpl.NewReadError(nil, "empty template name")
	}
	if path.IsAbs(name) {
		return "", tagtpl.NewReadError(nil, "template name %q must be relative", name)
	}
	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", tagtpl.NewReadError(nil, "template name %q escapes the search path", name)
	}
	return cleaned, nil
}
