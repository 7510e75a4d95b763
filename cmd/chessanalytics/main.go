/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeb26/chessanalytics/chesscom"
	"github.com/mikeb26/chessanalytics/ecoref"
	"github.com/mikeb26/chessanalytics/games"
	"github.com/mikeb26/chessanalytics/internal/config"
	"github.com/mikeb26/chessanalytics/internal/httpcache"
	"github.com/mikeb26/chessanalytics/openings"
	"github.com/mikeb26/chessanalytics/s3cache"
	"github.com/mikeb26/chessanalytics/tactics"
	"github.com/notnil/chess"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":     handleHelp,
	"fetch":    handleFetch,
	"summary":  handleSummary,
	"openings": handleOpenings,
	"results":  handleResults,
	"resolve":  handleResolve,
	"tactics":  handleTactics,
	"ecoref":   handleEcoRef,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// settings binds the flags shared by the library commands on top of the
// config file.
type settings struct {
	configPath string
	user       string
	dir        string
	limit      int
	bucket     string
}

func addSettings(fs *flag.FlagSet) *settings {
	s := &settings{}
	fs.StringVar(&s.configPath, "config", "", "Config file (default "+
		config.DefaultPath()+")")
	fs.StringVar(&s.user, "user", "", "chess.com username")
	fs.StringVar(&s.dir, "dir", "", "Game library directory (default "+
		config.DefaultGamesRoot+"/<user>)")
	fs.IntVar(&s.limit, "limit", -1, "Maximum number of games to load")
	fs.StringVar(&s.bucket, "bucket", "-",
		"S3 bucket for the http cache and exports (empty disables S3)")
	return s
}

func (s *settings) load(fs *flag.FlagSet, needUser bool) *config.Config {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if s.user != "" {
		cfg.Username = s.user
	}
	if s.dir != "" {
		cfg.GamesDir = s.dir
	}
	if s.limit >= 0 {
		cfg.LibraryLimit = s.limit
	}
	if s.bucket != "-" {
		cfg.CacheBucket = s.bucket
	}
	if needUser && cfg.Username == "" && cfg.GamesDir == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --user or --dir.")
		fs.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	return cfg
}

func newResolver(cfg *config.Config) *openings.Resolver {
	tables, err := openings.LoadTables(cfg.NameTable, cfg.RangeTable,
		cfg.MainLineTable)
	if err != nil {
		log.Fatalf("Error loading opening tables: %v", err)
	}
	return openings.NewResolver(tables)
}

func loadLibrary(ctx context.Context, cfg *config.Config) *games.Library {
	lib, err := games.LoadLibrary(ctx, cfg.LibraryDir(), cfg.LibraryLimit,
		newResolver(cfg))
	if err != nil {
		log.Fatalf("Error loading games: %v", err)
	}
	if lib.Len() == 0 {
		log.Fatalf("No games found in %v; run '%s fetch' first",
			cfg.LibraryDir(), os.Args[0])
	}
	if cfg.Username != "" {
		lib.Username = cfg.Username
	}
	return lib
}

func parseColors(fs *flag.FlagSet, val string) []chess.Color {
	switch strings.ToLower(val) {
	case "white", "w":
		return []chess.Color{chess.White}
	case "black", "b":
		return []chess.Color{chess.Black}
	case "both", "":
		return []chess.Color{chess.White, chess.Black}
	}
	fmt.Fprintf(os.Stderr, "Unknown --color %q; use white, black or both.\n", val)
	fs.Usage()
	os.Exit(1)
	return nil
}

func handleFetch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	s := addSettings(fs)
	months := fs.Int("months", 0, "Only fetch the most recent N monthly archives (0 for all)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	cfg := s.load(fs, true)
	if cfg.Username == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --user.")
		fs.Usage()
		os.Exit(1)
	}

	client := chesscom.NewClient(ctx, cfg.CacheBucket)
	archives, err := client.Archives(ctx, cfg.Username)
	if err != nil {
		log.Fatalf("Error fetching archives for %v: %v", cfg.Username, err)
	}
	archives = chesscom.LatestArchives(archives, *months)
	pgns, err := client.Games(ctx, cfg.Username, archives, 0)
	if err != nil {
		log.Fatalf("Error fetching games for %v: %v", cfg.Username, err)
	}
	pgns = chesscom.LatestGames(pgns, cfg.LibraryLimit)
	paths, err := chesscom.SaveGames(cfg.LibraryDir(), pgns)
	if err != nil {
		log.Fatalf("Error saving games: %v", err)
	}

	fmt.Printf("Saved %v games from %v monthly archives to %v\n", len(paths),
		len(archives), cfg.LibraryDir())
}

func handleSummary(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	s := addSettings(fs)
	gameNum := fs.Int("game", 0, "Print the summary of the n-th game (1-based)")
	csvPath := fs.String("csv", "", "Write the library table to this CSV file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	cfg := s.load(fs, true)
	lib := loadLibrary(ctx, cfg)

	if *gameNum != 0 {
		if *gameNum < 0 || *gameNum > lib.Len() {
			log.Fatalf("--game must be between 1 and %v", lib.Len())
		}
		fmt.Print(lib.Games[*gameNum-1].Summary())
		return
	}

	white, black := lib.WinRates()
	fmt.Printf("Player: %v\n", lib.Username)
	fmt.Printf("Games: %v (white:%v black:%v)\n", lib.Len(),
		len(lib.GamesAs(chess.White)), len(lib.GamesAs(chess.Black)))
	fmt.Printf("Win rate as white: %.1f%%\n", white*100)
	fmt.Printf("Win rate as black: %.1f%%\n", black*100)
	for _, c := range []chess.Color{chess.NoColor, chess.White, chess.Black} {
		stats := lib.OpponentRatingStats(c)
		label := "all games"
		if c != chess.NoColor {
			label = "as " + strings.ToLower(c.Name())
		}
		fmt.Printf("Opponent rating (%v): mean %.0f stddev %.0f over %v games\n",
			label, stats.Mean, stats.StdDev, stats.Games)
	}

	if *csvPath == "" {
		return
	}
	f, err := os.Create(*csvPath)
	if err != nil {
		log.Fatalf("Error creating %v: %v", *csvPath, err)
	}
	defer f.Close()
	if err := lib.WriteCSV(f); err != nil {
		log.Fatalf("Error writing %v: %v", *csvPath, err)
	}
	fmt.Printf("Wrote %v\n", *csvPath)
}

func handleOpenings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("openings", flag.ExitOnError)
	s := addSettings(fs)
	color := fs.String("color", "both", "white, black or both")
	top := fs.Int("top", 10, "Number of openings to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	colors := parseColors(fs, *color)
	lib := loadLibrary(ctx, s.load(fs, true))

	for _, c := range colors {
		counts := lib.OpeningFrequencies(c)
		if *top > 0 && len(counts) > *top {
			counts = counts[:*top]
		}
		fmt.Printf("Most frequent openings as %v:\n", strings.ToLower(c.Name()))
		if len(counts) == 0 {
			fmt.Printf("  (none)\n")
		}
		for _, oc := range counts {
			fmt.Printf("  %4d  %v\n", oc.Count, oc.Opening)
		}
	}
}

func handleResults(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	s := addSettings(fs)
	color := fs.String("color", "both", "white, black or both")
	top := fs.Int("top", 10, "Number of openings to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	colors := parseColors(fs, *color)
	lib := loadLibrary(ctx, s.load(fs, true))

	for _, c := range colors {
		results, err := lib.ResultsByOpening(c)
		if err != nil {
			log.Fatalf("Error computing results: %v", err)
		}
		if *top > 0 && len(results) > *top {
			results = results[:*top]
		}
		fmt.Printf("Results as %v (W/L/D):\n", strings.ToLower(c.Name()))
		for _, r := range results {
			fmt.Printf("  %3d/%3d/%3d  %5.1f%%  %v\n", r.Wins, r.Losses,
				r.Draws, 100*float64(r.Wins)/float64(r.Games()), r.Opening)
		}
	}
}

func handleResolve(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	showMoves := fs.Bool("moves", false, "Also print the main line moves")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Please provide one or more ECO codes.")
		fs.Usage()
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	resolver := newResolver(cfg)

	failed := false
	for _, code := range fs.Args() {
		name, err := resolver.Resolve(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v: %v\n", code, err)
			failed = true
			continue
		}
		fmt.Printf("%v\t%v\n", code, name)
		if ml, ok := resolver.MainLine(code); ok && *showMoves {
			fmt.Printf("\t%v\n", ml.Moves)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func handleTactics(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("tactics", flag.ExitOnError)
	s := addSettings(fs)
	mateIn := fs.Int("mate", 2, "Find positions with a forced mate in this many moves")
	maxTactics := fs.Int("max", 0, "Stop after this many tactics (0 for no limit)")
	images := fs.Bool("images", false, "Render a PNG for each tactic")
	upload := fs.Bool("upload", false, "Upload the tactics JSON to the S3 bucket")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	cfg := s.load(fs, true)
	lib := loadLibrary(ctx, cfg)

	engine, err := tactics.NewStockfish(cfg.StockfishPath, cfg.EngineDepth)
	if err != nil {
		log.Fatalf("Error starting engine: %v", err)
	}
	defer engine.Close()

	found, err := tactics.FindForcedMates(ctx, lib, engine, *mateIn, *maxTactics)
	if err != nil {
		// keep whatever was found before the interruption
		log.Printf("Warning: tactic search stopped early: %v", err)
	}
	outDir := filepath.Join(cfg.OutputDir, lib.Username)
	jsonPath, err := tactics.Export(outDir, found, *images)
	if err != nil {
		log.Fatalf("Error exporting tactics: %v", err)
	}
	fmt.Printf("Found %v tactics; wrote %v\n", len(found), jsonPath)

	if !*upload {
		return
	}
	if cfg.CacheBucket == "" {
		log.Fatalf("--upload requires a bucket")
	}
	store := s3cache.New(ctx, cfg.CacheBucket, false, true)
	if err := store.Init(); err != nil {
		log.Fatalf("Error accessing bucket %v: %v", cfg.CacheBucket, err)
	}
	var buf bytes.Buffer
	if err := tactics.WriteJSON(&buf, found); err != nil {
		log.Fatalf("Error encoding tactics: %v", err)
	}
	url, err := store.Upload(ctx, filepath.ToSlash(filepath.Join(lib.Username,
		filepath.Base(jsonPath))), "application/json", &buf)
	if err != nil {
		log.Fatalf("Error uploading tactics: %v", err)
	}
	fmt.Printf("Uploaded %v\n", url)
}

func handleEcoRef(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ecoref", flag.ExitOnError)
	url := fs.String("url", ecoref.DefaultURL, "ECO reference page")
	out := fs.String("out", "", "Write the main line table here (default stdout)")
	bucket := fs.String("bucket", "", "S3 bucket for the http cache")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	hc := httpcache.NewCachedHttpClient(ctx, *bucket, 30*24*time.Hour)
	rows, err := ecoref.FetchMainLines(ctx, hc, *url)
	if err != nil {
		log.Fatalf("Error fetching %v: %v", *url, err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Error creating %v: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := ecoref.WriteMainLineTable(w, rows); err != nil {
		log.Fatalf("Error writing main line table: %v", err)
	}
	if *out != "" {
		fmt.Printf("Wrote %v main lines to %v\n", len(rows), *out)
	}
}
