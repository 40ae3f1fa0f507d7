// Package site models a website as a hierarchy of directories and pages
// rooted at its host name. Pages are the document handles of the search
// engine; a page always knows the site it belongs to.
package site

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/huandu/skiplist"

	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

const homePageName = "index.html"

// Page is a leaf of the hierarchy carrying the page text.
type Page struct {
	name    string
	url     string
	content string
	site    *WebSite
}

func (p *Page) Name() string      { return p.name }
func (p *Page) URL() string       { return p.url }
func (p *Page) Content() string   { return p.content }
func (p *Page) Site() *WebSite    { return p.site }
func (p *Page) Host() string      { return p.site.host }
func (p *Page) String() string    { return p.url }
func (p *Page) Less(o *Page) bool { return p.url < o.url }

// Directory holds pages and sub-directories ordered by name, with the case of
// every letter inverted so that lower-case names sort first.
type Directory struct {
	name    string
	entries *skiplist.SkipList
}

func newDirectory(name string) *Directory {
	return &Directory{
		name:    name,
		entries: skiplist.New(skiplist.String),
	}
}

func (d *Directory) Name() string { return d.name }

// Len returns the number of direct entries.
func (d *Directory) Len() int { return d.entries.Len() }

func (d *Directory) lookup(name string) (any, bool) {
	elem := d.entries.Get(swapCase(name))
	if elem == nil {
		return nil, false
	}
	return elem.Value, true
}

func (d *Directory) insert(name string, entry any) {
	d.entries.Set(swapCase(name), entry)
}

// WebSite is the hierarchy of one host.
type WebSite struct {
	host string
	root *Directory
	home *Page
}

// New returns an empty site for host.
func New(host string) *WebSite {
	return &WebSite{
		host: host,
		root: newDirectory(host),
	}
}

func (s *WebSite) Host() string { return s.host }

// HomePage returns host/index.html, or ErrNoHomePage if it was never inserted.
func (s *WebSite) HomePage() (*Page, error) {
	if s.home == nil {
		return nil, fmt.Errorf("%s: %w", s.host, apperrors.ErrNoHomePage)
	}
	return s.home, nil
}

// InsertPage stores content at url, creating intermediate directories as
// needed, and returns the page. The first path segment of url must be the
// site's host. Inserting an existing url replaces its content.
func (s *WebSite) InsertPage(url, content string) (*Page, error) {
	path, err := s.split(url)
	if err != nil {
		return nil, err
	}
	last := len(path) - 1
	dir := s.root
	for _, name := range path[1:last] {
		if dir, err = s.newDir(name, dir); err != nil {
			return nil, fmt.Errorf("inserting %s: %w", url, err)
		}
	}
	page, err := s.newPage(path[last], dir)
	if err != nil {
		return nil, fmt.Errorf("inserting %s: %w", url, err)
	}
	page.url = url
	page.content = content
	if last == 1 && path[last] == homePageName {
		s.home = page
	}
	return page, nil
}

// Page returns the page stored at url.
func (s *WebSite) Page(url string) (*Page, error) {
	path, err := s.split(url)
	if err != nil {
		return nil, err
	}
	last := len(path) - 1
	dir := s.root
	for _, name := range path[1:last] {
		if dir, err = s.hasDir(name, dir); err != nil {
			return nil, fmt.Errorf("looking up %s: %w", url, err)
		}
	}
	page, err := s.hasPage(path[last], dir)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", url, err)
	}
	return page, nil
}

// SiteString renders the hierarchy: the host on the first line, then one line
// per entry in pre-order, indented with three dashes per level.
func (s *WebSite) SiteString() string {
	var b strings.Builder
	b.WriteString(s.host)
	b.WriteByte('\n')
	s.compose(&b, s.root, 3)
	return b.String()
}

func (s *WebSite) compose(b *strings.Builder, dir *Directory, depth int) {
	for elem := dir.entries.Front(); elem != nil; elem = elem.Next() {
		b.WriteString(strings.Repeat("-", depth))
		b.WriteByte(' ')
		switch e := elem.Value.(type) {
		case *Directory:
			b.WriteString(e.name)
			b.WriteByte('\n')
			s.compose(b, e, depth+3)
		case *Page:
			b.WriteString(e.name)
			b.WriteByte('\n')
		default:
			panic(fmt.Sprintf("site: unexpected entry %T in %s", e, dir.name))
		}
	}
}

func (s *WebSite) split(url string) ([]string, error) {
	path := strings.Split(url, "/")
	if len(path) < 2 || path[0] == "" || path[0] != s.host {
		return nil, apperrors.Newf(apperrors.ErrInvalidURL, 400, "%q is not valid for host %s", url, s.host)
	}
	for _, name := range path[1:] {
		if name == "" {
			return nil, apperrors.Newf(apperrors.ErrInvalidURL, 400, "%q has an empty path segment", url)
		}
	}
	return path, nil
}

func (s *WebSite) hasDir(name string, cdir *Directory) (*Directory, error) {
	entry, ok := cdir.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, cdir.name, apperrors.ErrDirectoryNotFound)
	}
	dir, ok := entry.(*Directory)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, apperrors.ErrNotADirectory)
	}
	return dir, nil
}

func (s *WebSite) newDir(name string, cdir *Directory) (*Directory, error) {
	if _, ok := cdir.lookup(name); !ok {
		dir := newDirectory(name)
		cdir.insert(name, dir)
		return dir, nil
	}
	return s.hasDir(name, cdir)
}

func (s *WebSite) hasPage(name string, cdir *Directory) (*Page, error) {
	entry, ok := cdir.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, cdir.name, apperrors.ErrPageNotFound)
	}
	page, ok := entry.(*Page)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, apperrors.ErrNotAPage)
	}
	return page, nil
}

func (s *WebSite) newPage(name string, cdir *Directory) (*Page, error) {
	if _, ok := cdir.lookup(name); !ok {
		page := &Page{name: name, site: s}
		cdir.insert(name, page)
		return page, nil
	}
	return s.hasPage(name, cdir)
}

func swapCase(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, name)
}
