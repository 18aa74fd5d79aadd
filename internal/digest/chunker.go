package digest

// Segment is one message worth of digest text
type Segment struct {
	Ordinal int
	Text    string
}

// Chunk splits text into consecutive segments of at most maxLength characters.
// Segments never cut a UTF-8 sequence and joined in order they give back text unchanged.
// Empty text yields no segments. maxLength must be positive.
func Chunk(text string, maxLength int) []Segment {
	if maxLength <= 0 {
		panic("digest: Chunk maxLength must be positive")
	}
	if text == "" {
		return nil
	}

	var segments []Segment
	start, count := 0, 0
	for i := range text {
		if count == maxLength {
			segments = append(segments, Segment{Ordinal: len(segments), Text: text[start:i]})
			start, count = i, 0
		}
		count++
	}
	return append(segments, Segment{Ordinal: len(segments), Text: text[start:]})
}
