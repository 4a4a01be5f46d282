// shabda manages the Devanagari word frequency dictionary used by the
// lekhika input method engine: learn vocabulary from text corpora, add or
// remove single words, and inspect the dictionary.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lekhika-tools/shabda/pkg/config"
	"github.com/lekhika-tools/shabda/pkg/db"
	"github.com/lekhika-tools/shabda/pkg/devanagari"
	"github.com/lekhika-tools/shabda/pkg/ingest"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "learn":
		err = runLearn(ctx, args)
	case "add":
		err = runAdd(ctx, args)
	case "remove":
		err = runRemove(ctx, args)
	case "list":
		err = runList(ctx, args)
	case "suggest":
		err = runSuggest(ctx, args)
	case "info":
		err = runInfo(ctx, args)
	case "reset":
		err = runReset(ctx, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: shabda <command> [flags]

Commands:
  learn <file>      Learn Devanagari words from a text or HTML file.
  add <word>        Add a single word or increment its frequency.
  remove <word>     Remove a word from the dictionary.
  list              List words (--limit, --offset, --sort word|freq, --asc, --desc).
  suggest <prefix>  Show completion candidates for a prefix.
  info              Show dictionary metadata and statistics.
  reset             Delete all words (requires --i-am-sure).

Common flags (every command):
  --db <path>       Dictionary database path.
  --config <path>   YAML settings file.
`)
}

// commonFlags carries the flags shared by every subcommand.
type commonFlags struct {
	fs      *flag.FlagSet
	dbPath  *string
	cfgPath *string
}

func newFlagSet(name string) *commonFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &commonFlags{
		fs:      fs,
		dbPath:  fs.String("db", "", "dictionary database path"),
		cfgPath: fs.String("config", "", "YAML settings file"),
	}
}

// loadConfig resolves settings: built-in defaults, then the config file,
// then command line flags.
func (c *commonFlags) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *c.cfgPath != "" {
		loaded, err := config.Load(*c.cfgPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if *c.dbPath != "" {
		cfg.DBPath = *c.dbPath
	}
	if cfg.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return cfg, err
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

func openDictionary(cfg config.Config) (*sql.DB, error) {
	return db.Open(cfg.DBPath)
}

func runLearn(ctx context.Context, args []string) error {
	cf := newFlagSet("learn")
	chunkMB := cf.fs.Int("chunk-mb", 0, "chunk size in MiB (overrides config)")
	workers := cf.fs.Int("workers", 0, "validation workers (default: all CPUs)")
	cf.fs.Parse(args)
	if cf.fs.NArg() != 1 {
		return errors.New("usage: shabda learn [flags] <file>")
	}
	path := cf.fs.Arg(0)

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	learner := ingest.NewLearner(conn)
	learner.ChunkSize = cfg.ChunkSizeMB * 1024 * 1024
	if *chunkMB > 0 {
		learner.ChunkSize = *chunkMB * 1024 * 1024
	}
	learner.Workers = cfg.Workers
	if *workers > 0 {
		learner.Workers = *workers
	}
	learner.Logger = log.New(os.Stdout, "", 0)
	var seen, valid int
	learner.OnProgress = func(p ingest.ChunkProgress) {
		seen += p.Candidates
		valid += p.Valid
		fmt.Printf("chunk %d/%d: %d candidates, %d valid\n",
			p.Chunk+1, p.TotalChunks, p.Candidates, p.Valid)
	}

	var total int
	if ingest.IsHTMLPath(path) {
		total, err = learner.LearnHTML(ctx, path)
	} else {
		total, err = learner.Learn(ctx, path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Learned %d word occurrence(s) from %s (%d candidates seen, %d rejected).\n",
		total, path, seen, seen-valid)
	return nil
}

func runAdd(ctx context.Context, args []string) error {
	cf := newFlagSet("add")
	cf.fs.Parse(args)
	if cf.fs.NArg() != 1 {
		return errors.New("usage: shabda add [flags] <word>")
	}
	word := cf.fs.Arg(0)

	if !devanagari.IsValidWord(word) {
		return fmt.Errorf("%q is not a valid Devanagari word", word)
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.AddWord(ctx, conn, word); err != nil {
		return err
	}
	freq, err := db.GetFrequency(ctx, conn, word)
	if err != nil {
		return err
	}
	fmt.Printf("Added %q (frequency now %d).\n", word, freq)
	return nil
}

func runRemove(ctx context.Context, args []string) error {
	cf := newFlagSet("remove")
	cf.fs.Parse(args)
	if cf.fs.NArg() != 1 {
		return errors.New("usage: shabda remove [flags] <word>")
	}
	word := cf.fs.Arg(0)

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch err := db.RemoveWord(ctx, conn, word); {
	case errors.Is(err, db.ErrNotFound):
		fmt.Printf("Word %q not found in the dictionary.\n", word)
	case err != nil:
		return err
	default:
		fmt.Printf("Removed %q.\n", word)
	}
	return nil
}

func runList(ctx context.Context, args []string) error {
	cf := newFlagSet("list")
	limit := cf.fs.Int("limit", 0, "number of words to show")
	offset := cf.fs.Int("offset", 0, "number of words to skip")
	sortBy := cf.fs.String("sort", "word", "sort by 'word' or 'freq'")
	asc := cf.fs.Bool("asc", false, "sort ascending (default: words ascending, frequencies descending)")
	desc := cf.fs.Bool("desc", false, "sort descending")
	cf.fs.Parse(args)

	if *asc && *desc {
		return errors.New("--asc and --desc are mutually exclusive")
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}

	opts := db.ListOptions{Limit: cfg.ListLimit, Offset: *offset}
	if *limit > 0 {
		opts.Limit = *limit
	}
	switch *sortBy {
	case "word":
		opts.SortBy = db.ByWord
		opts.Ascending = true
	case "freq":
		opts.SortBy = db.ByFrequency
		opts.Ascending = false
	default:
		return fmt.Errorf("invalid --sort %q: must be 'word' or 'freq'", *sortBy)
	}
	if *asc {
		opts.Ascending = true
	}
	if *desc {
		opts.Ascending = false
	}

	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	entries, err := db.ListWords(ctx, conn, opts)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("The dictionary is empty.")
		return nil
	}

	fmt.Printf("%-20s | %s\n", "Word", "Frequency")
	fmt.Println("---------------------+----------")
	for _, e := range entries {
		fmt.Printf("%-20s | %d\n", e.Word, e.Frequency)
	}
	return nil
}

func runSuggest(ctx context.Context, args []string) error {
	cf := newFlagSet("suggest")
	limit := cf.fs.Int("limit", 0, "maximum number of suggestions")
	cf.fs.Parse(args)
	if cf.fs.NArg() != 1 {
		return errors.New("usage: shabda suggest [flags] <prefix>")
	}
	prefix := cf.fs.Arg(0)

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	n := cfg.SuggestLimit
	if *limit > 0 {
		n = *limit
	}
	words, err := db.SuggestWords(ctx, conn, prefix, n)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		fmt.Println("(no suggestions found)")
		return nil
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}

func runInfo(ctx context.Context, args []string) error {
	cf := newFlagSet("info")
	cf.fs.Parse(args)

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	info, err := db.GetInfo(ctx, conn, cfg.DBPath)
	if err != nil {
		return err
	}

	fmt.Println("--- Dictionary Info ---")
	fmt.Printf("Location: %s\n", info.Path)
	for _, m := range info.Meta {
		fmt.Printf("- %s: %s\n", m.Key, m.Value)
	}
	fmt.Printf("- Total words: %d\n", info.Words)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	cf := newFlagSet("reset")
	sure := cf.fs.Bool("i-am-sure", false, "confirm deleting every word")
	cf.fs.Parse(args)

	if !*sure {
		return errors.New("reset deletes every word; pass --i-am-sure to confirm")
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDictionary(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.ResetWords(ctx, conn); err != nil {
		return err
	}
	fmt.Println("Dictionary has been reset. All words have been deleted.")
	return nil
}
