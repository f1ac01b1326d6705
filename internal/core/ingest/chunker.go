package ingest

import "strings"

// Chunker splits text into fixed-size overlapping windows. Window edges are
// pulled back to the nearest paragraph, line or word boundary when one falls
// in the second half of the window, so chunks rarely cut words apart.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

func (c *Chunker) SplitText(text string) []string {
	runes := []rune(text)

	var out []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.boundary(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

// boundary walks back from end looking for a break point, but never past the
// middle of the window.
func (c *Chunker) boundary(runes []rune, start, end int) int {
	floor := start + c.size/2

	for _, seps := range []string{"\n\n", "\n", " "} {
		window := string(runes[floor:end])
		if i := strings.LastIndex(window, seps); i >= 0 {
			cut := floor + len([]rune(window[:i])) + len([]rune(seps))
			if cut > start {
				return cut
			}
		}
	}
	return end
}
