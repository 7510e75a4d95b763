/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent      = "chessanalytics/0.3.0 (+https://github.com/mikeb26/chessanalytics)"
	WebCacheBucket = "bopmatic-chessanalytics-prod-webcache"

	// chess.com monthly archives separate games with two blank lines
	GameSeparator = "\n\n\n"
)
