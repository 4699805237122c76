package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/illarion/keyvault/internal/keystore"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// CompareKeystoreFiles parses two keystore JSON files and returns a unified
// diff of their canonical forms, or empty string if the envelopes are equal.
// Both inputs must be well-formed keystores; this validates shape only and
// never derives keys.
func CompareKeystoreFiles(pathA, pathB string) (string, error) {
	a, err := canonicalKeystore(pathA)
	if err != nil {
		return "", err
	}
	b, err := canonicalKeystore(pathB)
	if err != nil {
		return "", err
	}

	if a == b {
		return "", nil
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	c1, c2, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(c1, c2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(a, diffs)
	if len(patches) == 0 {
		return "", nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s\n", pathA))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", pathB))
	result.WriteString(dmp.PatchToText(patches))

	return result.String(), nil
}

// canonicalKeystore reads, validates and re-renders a keystore file in
// indented form, so diffs line up field by field regardless of the
// producer's formatting.
func canonicalKeystore(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}

	ks, err := keystore.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	pretty, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot render %s: %w", path, err)
	}
	return string(pretty) + "\n", nil
}
