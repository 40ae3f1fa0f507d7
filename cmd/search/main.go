// Command search indexes a directory of page files and prints the websites
// of the top pages for one keyword.
//
// Usage:
//
//	go run ./cmd/search -dir pages -q ingegneria -k 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/loader"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/logger"
)

func main() {
	dir := flag.String("dir", "pages", "directory of page files")
	query := flag.String("q", "", "keyword to search for")
	k := flag.Int("k", 3, "number of pages to rank")
	analyzer := flag.String("analyzer", "whitespace", "whitespace, lower or stem")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: search -dir <pages> -q <keyword> [-k n]")
		os.Exit(2)
	}
	logger.Setup(*logLevel, "text")

	engine, err := indexer.NewEngine(config.IndexerConfig{Analyzer: *analyzer}, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if _, err := engine.LoadSource(context.Background(), loader.NewDir(*dir, 0)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	out, err := engine.SearchSites(*query, *k)
	if errors.Is(err, apperrors.ErrTermNotFound) {
		fmt.Fprintf(os.Stderr, "%q not found\n", *query)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(out)
}
