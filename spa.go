// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package isolatedspa

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// ForwardedPrefixHeader, if present, specifies the prefix a path rewriting
// proxy stripped from the original request path.
const ForwardedPrefixHeader = "X-Forwarded-Prefix"

// ForwardedUriHeader, if present, specifies the original URI (or with some
// proxies only the original URI path) of a request when it hit the first
// path rewriting proxy.
const ForwardedUriHeader = "X-Forwarded-Uri"

// servedMethods lists the only HTTP methods the SPAHandler answers.
const servedMethods = "GET, HEAD"

// baseRe matches the base element in the index document so that it can be
// rewritten on the fly. The lazy "*?" keeps the match from running until the
// last empty element in the document.
var baseRe = regexp.MustCompile(`(<base href=").*?("\s*/>)`)

// SPAHandler implements an http.Handler that serves static assets from an
// fs.FS whenever the request path names a regular file, and the index
// document on all other request paths.
type SPAHandler struct {
	fs            fs.FS         // the FS to serve static assets from.
	index         string        // unrooted path+name of the index document inside fs.
	rewriteBase   bool          // rewrite the index' base element from proxy headers?
	indexRewriter IndexRewriter // optional post-processing of the index document.
}

// NewSPAHandler returns a new HTTP handler serving static assets from the
// specified fs, and the index document instead whenever no directly matching
// file exists. The index should be an unrooted, slash-separated path+name
// inside fs, such as "index.html"; NewSPAHandler sanitizes it anyway.
//
// In order to serve the static assets from a directory on the OS file system,
// use os.DirFS:
//
//	h := NewSPAHandler(os.DirFS("dist"), "index.html")
func NewSPAHandler(fsys fs.FS, index string, opts ...SPAHandlerOption) *SPAHandler {
	h := &SPAHandler{
		fs:    fsys,
		index: path.Clean("/" + index)[1:],
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SPAHandlerOption sets optional properties at the time of creating an
// SPAHandler.
type SPAHandlerOption func(*SPAHandler)

// IndexRewriter rewrites (parts of) the index document contents delivered to
// a requesting client. It runs after any base element rewriting.
type IndexRewriter func(r *http.Request, index string) string

// WithIndexRewriter sets an IndexRewriter that gets called before delivering
// the index document contents, allowing for application-specific changes.
func WithIndexRewriter(rewriter IndexRewriter) SPAHandlerOption {
	return func(h *SPAHandler) {
		h.indexRewriter = rewriter
	}
}

// WithBaseRewriting enables rewriting the index document's "<base href=...>"
// element to the base path the client sees, as derived from the
// X-Forwarded-Prefix and X-Forwarded-Uri headers of path rewriting proxies.
// Without this option the index document is served byte for byte.
func WithBaseRewriting() SPAHandlerOption {
	return func(h *SPAHandler) {
		h.rewriteBase = true
	}
}

// CheckIndex returns an error if the index document cannot be found as a
// regular file in fsys.
func CheckIndex(fsys fs.FS, index string) error {
	index = path.Clean("/" + index)[1:]
	info, err := fs.Stat(fsys, index)
	if err != nil {
		return fmt.Errorf("index document %q unavailable: %w", index, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("index document %q is not a regular file", index)
	}
	return nil
}

// ServeHTTP serves a static asset if the request path names one, or the index
// document everywhere else. The latter is required for SPAs with client-side
// DOM routers, as otherwise reloading the SPA or following a bookmark on any
// route other than "/" would fail.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", servedMethods)
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}
	dirSlash := strings.HasSuffix(r.URL.Path, "/")
	// Slapping "/" in front ensures that path.Clean never resolves the
	// request path relative to anything, so there is no way out of the fs.
	r.URL.Path = path.Clean("/" + r.URL.Path)
	if h.serveStaticAsset(w, r, dirSlash) {
		return
	}
	h.serveIndex(w, r)
}

// serveStaticAsset tries to serve the static asset named by the already
// sanitized r.URL.Path, returning true if it served something (which might
// also be an error response). It returns false when there is no such asset,
// leaving it to the caller to fall back to the index document.
//
// A directory with its own index document gets redirected to its form with a
// trailing slash, unless dirSlash says the client already asked for that form.
// Otherwise, relative URLs inside the directory's index would resolve against
// the parent directory.
func (h *SPAHandler) serveStaticAsset(w http.ResponseWriter, r *http.Request, dirSlash bool) bool {
	name := r.URL.Path[1:] // fs.FS uses unrooted paths.
	if name == "" {
		return false // hitting the root always is a case for the index.
	}
	info, err := fs.Stat(h.fs, name)
	if err != nil {
		// Only a forbidden asset is an error worth reporting; missing
		// assets, invalid names, and paths running through regular files
		// (ENOTDIR) all are routes for the SPA.
		if errors.Is(err, fs.ErrPermission) {
			NormalizedHttpError(w, err)
			return true
		}
		return false
	}
	if info.IsDir() {
		// A directory with its own index document gets that document,
		// anything else falls back to the SPA's index.
		name = path.Join(name, path.Base(h.index))
		info, err = fs.Stat(h.fs, name)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
	}
	if !info.Mode().IsRegular() {
		return false
	}
	if err := h.serveFile(w, r, name); err != nil {
		NormalizedHttpError(w, err)
	}
	return true
}

// dirRedirect redirects to the request path with a trailing slash appended. The
// Location is relative, so it works unchanged behind path rewriting proxies.
func dirRedirect(w http.ResponseWriter, r *http.Request) {
	location := path.Base(r.URL.Path) + "/"
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusMovedPermanently)
}

// serveFile serves the named regular file from the handler's fs, leaving
// content type detection, conditional requests and ranges to
// http.ServeContent. Unlike http.FileServer it never redirects requests for
// ".../index.html".
func (h *SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) error {
	f, err := h.fs.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		// Not all fs.FS implementations hand out seekable files.
		b, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(b)
	}
	http.ServeContent(w, r, path.Base(name), info.ModTime(), content)
	return nil
}

// serveIndex serves the index document, optionally rewriting its base
// element and post-processing it. As the index document must always be
// present, any failure to read it is a server error.
func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	contents, modTime, err := h.readIndex()
	if err != nil {
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !h.rewriteBase && h.indexRewriter == nil {
		http.ServeContent(w, r, path.Base(h.index), modTime, bytes.NewReader(contents))
		return
	}
	index := string(contents)
	if h.rewriteBase {
		// "$" would interfere with the "$1" and "$2" back references; as
		// this ain't VMS, SPA paths don't need it anyway.
		base := strings.ReplaceAll(h.basename(r), "$", "")
		index = baseRe.ReplaceAllString(index, "${1}"+base+"${2}")
	}
	if h.indexRewriter != nil {
		index = h.indexRewriter(r, index)
	}
	http.ServeContent(w, r, path.Base(h.index), modTime, strings.NewReader(index))
}

// readIndex returns the contents and modification time of the index document.
func (h *SPAHandler) readIndex() ([]byte, time.Time, error) {
	f, err := h.fs.Open(h.index)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}
	if !info.Mode().IsRegular() {
		return nil, time.Time{}, fmt.Errorf("index %q is not a regular file", h.index)
	}
	contents, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}, err
	}
	return contents, info.ModTime(), nil
}

// originalReqPath returns the request path as it was when hitting the first
// proxy in a chain, based on the forwarding headers passed down to us. Without
// any usable forwarding information it returns the already sanitized request
// URL path.
func (h *SPAHandler) originalReqPath(r *http.Request) string {
	// A rewritten request path started with the forwarded prefix, followed by
	// what we now see.
	if fwprefix := r.Header.Get(ForwardedPrefixHeader); fwprefix != "" {
		return path.Join(path.Clean("/"+fwprefix), r.URL.Path)
	}
	// Some proxies pass only the original path, others the full URI.
	if fwuri := r.Header.Get(ForwardedUriHeader); fwuri != "" {
		if strings.HasPrefix(fwuri, "/") {
			return path.Clean(fwuri)
		}
		if u, err := url.Parse(fwuri); err == nil {
			return path.Clean("/" + u.Path)
		}
	}
	return r.URL.Path
}

// basename returns the base path of the SPA from the client's perspective,
// always ending in "/". If the base cannot be derived from the forwarding
// headers it is "/".
func (h *SPAHandler) basename(r *http.Request) string {
	reqPath := r.URL.Path
	originalReqPath := h.originalReqPath(r)
	if strings.HasSuffix(reqPath, "/") && !strings.HasSuffix(originalReqPath, "/") {
		// a proxy redirected /foo to /foo/ and then rewrote the path to /.
		originalReqPath += "/"
	}
	var base string
	if strings.HasSuffix(originalReqPath, reqPath) {
		base = originalReqPath[:len(originalReqPath)-len(reqPath)]
	}
	// Browsers clip off the final element of a base without trailing "/".
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}
