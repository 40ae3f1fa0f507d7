// Package loader reads pages from a directory of files. A .txt file holds
// the page URL on its first line and the page text after it; a .html file
// holds the URL on its first line followed by markup, which is reduced to its
// visible text.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
)

const defaultConcurrency = 4

// Dir is an ingestion.Source over the page files of one directory.
type Dir struct {
	path        string
	concurrency int
	logger      *slog.Logger
}

// NewDir returns a source reading the files in path with up to concurrency
// files open at once.
func NewDir(path string, concurrency int) *Dir {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Dir{
		path:        path,
		concurrency: concurrency,
		logger:      slog.Default().With("component", "dir-loader", "dir", path),
	}
}

func (d *Dir) Name() string { return "dir" }

type loaded struct {
	page ingestion.Page
	err  error
}

// Pages reads every page file concurrently and then calls fn for each page in
// file name order. Files that cannot be read or parsed are skipped; their
// errors are returned together once every other page was delivered.
func (d *Dir) Pages(ctx context.Context, fn func(ingestion.Page) error) error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("reading page directory %s: %w", d.path, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && isPageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	results := make([]loaded, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := readPageFile(filepath.Join(d.path, name))
			results[i] = loaded{page: page, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var result *multierror.Error
	for i, r := range results {
		if r.err != nil {
			d.logger.Warn("skipping page file", "file", names[i], "error", r.err)
			result = multierror.Append(result, r.err)
			continue
		}
		if err := fn(r.page); err != nil {
			return err
		}
	}
	d.logger.Info("page directory read", "files", len(names), "failed", len(names)-countOK(results))
	return result.ErrorOrNil()
}

func isPageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".html", ".htm":
		return true
	}
	return false
}

func countOK(results []loaded) int {
	n := 0
	for _, r := range results {
		if r.err == nil {
			n++
		}
	}
	return n
}

func readPageFile(path string) (ingestion.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingestion.Page{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	first, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return ingestion.Page{}, fmt.Errorf("reading url line of %s: %w", path, err)
	}
	url := strings.TrimRight(first, "\r\n")
	if strings.TrimSpace(url) == "" {
		return ingestion.Page{}, fmt.Errorf("%s: first line must hold the page url", path)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return ingestion.Page{}, fmt.Errorf("reading content of %s: %w", path, err)
	}

	content := string(body)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		content, err = ExtractText(body)
		if err != nil {
			return ingestion.Page{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return ingestion.Page{URL: url, Content: content}, nil
}

// ExtractText returns the text nodes of an HTML document separated by
// spaces, leaving out the contents of script and style elements.
func ExtractText(markup []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return "", err
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style")) {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " "), nil
}
