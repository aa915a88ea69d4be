// cmd/refcheck parses a file of scripture references (one per line) against a
// loaded translation directory and reports every reference that fails to
// resolve. Useful for validating lectionary files before deploying them.
//
// Usage: refcheck <references.txt> [data-dir] [version]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"scriptura/parsing"
	"scriptura/services"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: refcheck <references.txt> [data-dir] [version]")
		os.Exit(2)
	}

	dataDir := "data"
	if len(os.Args) > 2 {
		dataDir = os.Args[2]
	}
	version := "statenvertaling"
	if len(os.Args) > 3 {
		version = os.Args[3]
	}

	store := services.LoadVersions(dataDir)
	if len(store.Versions()) == 0 {
		fmt.Printf("no translations found in %s\n", dataDir)
		os.Exit(1)
	}

	parser := parsing.NewParser(store, parsing.NewBookNormalizer(), version)

	file, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Println("error: cannot open references file:", err)
		os.Exit(1)
	}
	defer file.Close()

	exitCode := 0
	lineNum := 0
	checked := 0
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		checked++

		result := parser.Parse(context.Background(), line, version)
		if !result.Parsed {
			fmt.Printf("%s:%d: %q: %s\n", os.Args[1], lineNum, line, result.Error)
			exitCode = 1
			continue
		}
		fmt.Printf("%s:%d: %q: %d verses\n", os.Args[1], lineNum, line, len(result.Verses))
	}
	if err := sc.Err(); err != nil {
		fmt.Println("error: scan failed:", err)
		os.Exit(1)
	}

	fmt.Printf("checked %d references\n", checked)
	os.Exit(exitCode)
}
