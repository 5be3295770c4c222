package ui

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadMonogram returns the art drawn in the center of the display.
// A custom design is read from "<letter>.txt" under dir when present;
// otherwise a builtin block letter is used. Anything that is not a
// single A-Z letter falls back to "A", matching the config rules.
func LoadMonogram(dir, letter string) []string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		letter = "A"
	}

	if dir != "" {
		if art := readMonogramFile(filepath.Join(dir, letter+".txt")); len(art) > 0 {
			return art
		}
	}

	return fallbackMonogram(letter)
}

// readMonogramFile loads one art file, right-trimming each line and
// dropping trailing blank lines. Returns nil when the file is missing,
// unreadable or effectively empty.
func readMonogramFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}

// fallbackMonogram builds a simple five-row block letter out of the
// letter itself
func fallbackMonogram(letter string) []string {
	return []string{
		"  " + letter + "  ",
		" " + letter + letter + letter + " ",
		letter + "   " + letter,
		letter + letter + letter + letter + letter,
		letter + "   " + letter,
	}
}
