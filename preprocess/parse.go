package preprocess

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// scanEdgeList streams the edges of a whitespace-separated edge-list file.
// Lines are "src dst" with optional extra columns (ignored); empty lines
// and lines starting with '#' or '%' are skipped.
func scanEdgeList(path string, fn func(src, dst uint32) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return &ParseError{Path: path, Line: lineNo, Reason: "expected at least two columns"}
		}
		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Reason: "bad source vertex: " + fields[0]}
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Reason: "bad destination vertex: " + fields[1]}
		}
		if err := fn(uint32(src), uint32(dst)); err != nil {
			return err
		}
	}
	return sc.Err()
}
