package main

import (
	"fmt"
	"strings"

	"github.com/ava12/rdx/source"
)

// splitSamples treats content as multiple samples delimited by separator lines.
// The first line is a separator, each line starting with its first word is a separator too,
// the rest of a separator line is a comment.
// The last line feed preceding a separator is not included in the sample.
func splitSamples(name, content string) []*source.Source {
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}

	separator := linePrefix(lines[0])
	var res []*source.Source
	index := 1
	for first := 1; first < len(lines); index++ {
		last := first
		for last < len(lines) && !strings.HasPrefix(lines[last], separator) {
			last++
		}

		text := strings.Join(lines[first:last], "")
		if last < len(lines) {
			text = strings.TrimSuffix(text, "\n")
		}
		sampleName := fmt.Sprintf("%s, sample #%d (lines %d-%d)", name, index, first+1, last)
		res = append(res, source.New(sampleName, text))
		first = last + 1
	}
	return res
}

func linePrefix(line string) string {
	i := strings.IndexFunc(line, func(r rune) bool {
		return r <= ' '
	})
	if i < 0 {
		return line
	}
	return line[:i]
}
