/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tactics

import (
	"fmt"
	"os"
	"path/filepath"
)

// Export writes <n>_tactics.json into dir, plus one PNG per tactic when
// images is set, and returns the JSON file's path.
func Export(dir string, tactics []Tactic, images bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create %v: %w", dir, err)
	}

	jsonPath := filepath.Join(dir, fmt.Sprintf("%v_tactics.json", len(tactics)))
	if err := writeFile(jsonPath, func(f *os.File) error {
		return WriteJSON(f, tactics)
	}); err != nil {
		return "", err
	}

	if !images {
		return jsonPath, nil
	}

	seen := make(map[string]int)
	for _, t := range tactics {
		name := ImageName(t)
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%v_%v", name, seen[name])
		}
		err := writeFile(filepath.Join(dir, name+".png"), func(f *os.File) error {
			return RenderPNG(f, t.Position, DefaultImageSize)
		})
		if err != nil {
			return "", err
		}
	}

	return jsonPath, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %v: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write %v: %w", path, err)
	}
	return f.Close()
}
