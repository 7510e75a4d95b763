/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mikeb26/chessanalytics/chesscom"
	"github.com/mikeb26/chessanalytics/internal"
)

// this program exists just to seed the http cache with the monthly archives
// of the given chess.com players

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %v <chess.com username>...\n", os.Args[0])
		os.Exit(1)
	}

	ctx := context.Background()
	client := chesscom.NewClient(ctx, internal.WebCacheBucket)

	for _, username := range os.Args[1:] {
		archives, err := client.Archives(ctx, username)
		if err != nil {
			// best effort
			fmt.Fprintf(os.Stderr, "skipping %v: %v\n", username, err)
			continue
		}

		for _, a := range archives {
			games, err := client.MonthlyPGN(ctx, username, a.Year, a.Month)
			time.Sleep(2 * time.Second) // avoid pegging chess.com
			if err != nil {
				// best effort
				continue
			}

			fmt.Printf("seeded %v %04d/%02d (%v games)\n", username, a.Year,
				a.Month, len(games))
		}
	}
}
