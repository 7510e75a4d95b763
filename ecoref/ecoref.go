/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ecoref builds the ECO main-line reference table from an HTML
// listing such as https://www.chessgames.com/chessecohelp.html, where each
// row looks like:
//
//	<tr><td>C41</td><td><b>Philidor Defense</b><br>1 e4 e5 2 Nf3 d6</td></tr>
package ecoref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/chessanalytics/internal"
	"github.com/mikeb26/chessanalytics/openings"
)

const DefaultURL = "https://www.chessgames.com/chessecohelp.html"

var ecoCodeRe = regexp.MustCompile(`^[A-E][0-9]{2}$`)

// FetchMainLines downloads and parses the reference page at url.
func FetchMainLines(ctx context.Context, client *http.Client,
	url string) ([]openings.MainLine, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch eco reference (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch eco reference (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch eco reference (http): %v",
			resp.StatusCode)
	}

	return ParseMainLines(resp.Body)
}

// ParseMainLines extracts one MainLine per table row whose first cell is an
// ECO code. Row order is preserved.
func ParseMainLines(r io.Reader) ([]openings.MainLine, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var ret []openings.MainLine
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < 2 {
			return
		}
		code := strings.TrimSpace(tds.Eq(0).Text())
		if !ecoCodeRe.MatchString(code) {
			// header or layout rows
			return
		}

		cell := tds.Eq(1)
		nameSel := cell.Find("b").First()
		name := collapseSpace(nameSel.Text())
		if name == "" {
			return
		}
		full := collapseSpace(cell.Text())
		moves := strings.TrimSpace(strings.TrimPrefix(full, name))

		ret = append(ret, openings.MainLine{
			Code:  code,
			Name:  name,
			Moves: moves,
		})
	})

	if len(ret) == 0 {
		return nil, fmt.Errorf("no eco rows found")
	}
	return ret, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WriteMainLineTable writes rows in the format openings.ReadMainLineTable
// reads.
func WriteMainLineTable(w io.Writer, rows []openings.MainLine) error {
	if _, err := fmt.Fprintln(w, "# ECO code\tname\tmoves"); err != nil {
		return err
	}
	for _, ml := range rows {
		_, err := fmt.Fprintf(w, "%v\t%v\t%v\n", ml.Code, sanitize(ml.Name),
			sanitize(ml.Moves))
		if err != nil {
			return err
		}
	}
	return nil
}

func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
