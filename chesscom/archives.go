/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/mikeb26/chessanalytics/internal"
	"golang.org/x/sync/errgroup"
)

// Archive is one month of a player's games.
type Archive struct {
	Year  int
	Month int
	URL   string
}

// apiArchivesResponse represents the JSON response from the archives endpoint
type apiArchivesResponse struct {
	Archives []string `json:"archives"`
}

func (client *Client) get(ctx context.Context, hc *http.Client,
	endpoint string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing HTTP GET %v: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %v: %s", resp.StatusCode,
			endpoint, string(body))
	}

	return body, nil
}

// Archives lists the months in which username played, oldest first.
func (client *Client) Archives(ctx context.Context,
	username string) ([]Archive, error) {

	endpoint := fmt.Sprintf("%v/pub/player/%v/games/archives", client.baseURL,
		url.PathEscape(strings.ToLower(username)))
	body, err := client.get(ctx, client.httpClient1day, endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch archives for %v: %w", username, err)
	}

	var data apiArchivesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decoding archives JSON: %w", err)
	}

	ret := make([]Archive, 0, len(data.Archives))
	for _, a := range data.Archives {
		archive, err := parseArchiveURL(a)
		if err != nil {
			return nil, err
		}
		ret = append(ret, archive)
	}

	return ret, nil
}

// parseArchiveURL splits ".../games/2009/10" into its year and month.
func parseArchiveURL(archiveURL string) (Archive, error) {
	parts := strings.Split(strings.TrimRight(archiveURL, "/"), "/")
	if len(parts) < 2 {
		return Archive{}, fmt.Errorf("malformed archive url %q", archiveURL)
	}
	year, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return Archive{}, fmt.Errorf("malformed archive year in %q: %w",
			archiveURL, err)
	}
	month, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || month < 1 || month > 12 {
		return Archive{}, fmt.Errorf("malformed archive month in %q", archiveURL)
	}

	return Archive{Year: year, Month: month, URL: archiveURL}, nil
}

// MonthlyPGN returns every game username played in the given month, one
// PGN transcript per element.
func (client *Client) MonthlyPGN(ctx context.Context, username string, year int,
	month int) ([]string, error) {

	endpoint := fmt.Sprintf("%v/pub/player/%v/games/%04d/%02d/pgn",
		client.baseURL, url.PathEscape(strings.ToLower(username)), year, month)
	body, err := client.get(ctx, client.httpClient30day, endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v games for %04d/%02d: %w",
			username, year, month, err)
	}

	return SplitGames(string(body)), nil
}

// SplitGames splits a multi-game PGN export on the blank lines that
// separate games.
func SplitGames(pgn string) []string {
	pgn = strings.ReplaceAll(pgn, "\r\n", "\n")
	var ret []string
	for _, g := range strings.Split(pgn, internal.GameSeparator) {
		g = strings.TrimSpace(g)
		if g != "" {
			ret = append(ret, g)
		}
	}
	return ret
}

// Games fetches the first limit archives (all when limit <= 0) and returns
// their games in archive order.
func (client *Client) Games(ctx context.Context, username string,
	archives []Archive, limit int) ([]string, error) {

	if limit > 0 && limit < len(archives) {
		archives = archives[:limit]
	}

	perMonth := make([][]string, len(archives))
	eg, egCtx := errgroup.WithContext(ctx)
	// be polite to api.chess.com
	eg.SetLimit(min(4, runtime.GOMAXPROCS(0)))
	for i, a := range archives {
		eg.Go(func() error {
			pgns, err := client.MonthlyPGN(egCtx, username, a.Year, a.Month)
			if err != nil {
				return err
			}
			perMonth[i] = pgns
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var ret []string
	for _, pgns := range perMonth {
		ret = append(ret, pgns...)
	}
	return ret, nil
}

// LatestArchives returns the n most recent archives (all when n <= 0).
// Archives are listed oldest first.
func LatestArchives(archives []Archive, n int) []Archive {
	if n <= 0 || n >= len(archives) {
		return archives
	}
	return archives[len(archives)-n:]
}

// LatestGames returns the n most recent games (all when n <= 0) from the
// oldest-first list Games returns.
func LatestGames(games []string, n int) []string {
	if n <= 0 || n >= len(games) {
		return games
	}
	return games[len(games)-n:]
}

// WriteGames writes games in the multi-game layout chess.com serves.
func WriteGames(w io.Writer, games []string) error {
	for _, g := range games {
		if _, err := io.WriteString(w, g+internal.GameSeparator); err != nil {
			return err
		}
	}
	return nil
}

// SaveGames writes each game to its own file in dir, the layout
// games.LoadLibrary reads, and returns the paths written.
func SaveGames(dir string, games []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create %v: %w", dir, err)
	}

	paths := make([]string, 0, len(games))
	for i, g := range games {
		path := filepath.Join(dir, fmt.Sprintf("game_%05d.txt", i+1))
		if err := os.WriteFile(path, []byte(g+"\n"), 0644); err != nil {
			return paths, fmt.Errorf("unable to save game %v: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
