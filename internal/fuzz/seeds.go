package fuzztests

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

func addCorpusSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("(plus 1 2)"))
	matches, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*.mir"))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- path comes from repository testdata glob
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 || line[0] == ';' {
				continue
			}
			f.Add(clampSeed(line))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
