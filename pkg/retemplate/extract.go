package retemplate

// extract returns the placeholder values for one alignment.
//
// ends[i] is the end offset of literal i and lens[i] its length. Placeholder
// i spans from the end of literal i to the start of literal i+1. A leading
// empty literal is anchored at offset 0, so a template that starts with a
// placeholder captures from the beginning of text. A trailing empty literal
// has length 0, so the last placeholder runs up to ends[k].
func extract(text string, lens, ends []int) []string {
	values := make([]string, len(ends)-1)
	for i := range values {
		values[i] = text[ends[i] : ends[i+1]-lens[i+1]]
	}
	return values
}
