/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecoref

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/mikeb26/chessanalytics/openings"
)

const samplePage = `<html><body>
<table>
<tr><th>Code</th><th>Opening</th></tr>
<tr><td><font color="#FF0000">B00</font></td>
  <td><b>King's Pawn</b><br><font size="-1">1 e4</font></td></tr>
<tr><td>C41</td>
  <td><b>Philidor   Defense</b><br><font size="-1">1 e4 e5 2 Nf3 d6</font></td></tr>
<tr><td>C41</td>
  <td><b>Philidor Defense, Lopez Countergambit</b><br>1 e4 e5 2 Nf3 d6 3 Bc4 f5</td></tr>
<tr><td>ZZ9</td><td><b>Not a code</b></td></tr>
<tr><td>E99</td><td>no bold name</td></tr>
</table>
</body></html>`

var sampleRows = []openings.MainLine{
	{Code: "B00", Name: "King's Pawn", Moves: "1 e4"},
	{Code: "C41", Name: "Philidor Defense", Moves: "1 e4 e5 2 Nf3 d6"},
	{Code: "C41", Name: "Philidor Defense, Lopez Countergambit",
		Moves: "1 e4 e5 2 Nf3 d6 3 Bc4 f5"},
}

func TestParseMainLines(t *testing.T) {
	got, err := ParseMainLines(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ParseMainLines returned error: %v", err)
	}
	if !reflect.DeepEqual(got, sampleRows) {
		t.Errorf("ParseMainLines() = %+v; want %+v", got, sampleRows)
	}

	if _, err := ParseMainLines(strings.NewReader("<html></html>")); err == nil {
		t.Errorf("expected an error for a page without eco rows")
	}
}

func TestWriteMainLineTableRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMainLineTable(&buf, sampleRows); err != nil {
		t.Fatalf("WriteMainLineTable returned error: %v", err)
	}
	back, err := openings.ReadMainLineTable(&buf)
	if err != nil {
		t.Fatalf("ReadMainLineTable returned error: %v", err)
	}
	if !reflect.DeepEqual(back, sampleRows) {
		t.Errorf("round trip = %+v; want %+v", back, sampleRows)
	}

	// the fetched table drives the resolver's fallback
	r := openings.NewResolver(openings.Tables{MainLines: back})
	name, err := r.Resolve("C41")
	if err != nil || name != "Philidor Defense*" {
		t.Errorf("Resolve(C41) = %q, %v", name, err)
	}
}

func TestFetchMainLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		if r.URL.Path != "/eco.html" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	got, err := FetchMainLines(context.Background(), srv.Client(), srv.URL+"/eco.html")
	if err != nil {
		t.Fatalf("FetchMainLines returned error: %v", err)
	}
	if len(got) != len(sampleRows) {
		t.Errorf("got %v rows; want %v", len(got), len(sampleRows))
	}

	if _, err := FetchMainLines(context.Background(), srv.Client(), srv.URL+"/nope"); err == nil {
		t.Errorf("expected an error for a 404")
	}
}
