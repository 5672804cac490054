package ngram

// Fold maps ASCII a-z to A-Z. Every other rune folds to itself.
func Fold(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// Window is the lookback state of one stream: the previous and the two-back
// characters in raw and folded form.
type Window struct {
	prev1 [2]rune
	prev2 [2]rune
	size  int
}

// Len returns how many previous characters are held (0, 1 or 2).
func (w *Window) Len() int { return w.size }

// Reset returns the window to the empty stream-start state.
func (w *Window) Reset() { *w = Window{} }

func (w *Window) push(raw, folded rune) {
	w.prev2 = w.prev1
	w.prev1 = [2]rune{raw, folded}
	if w.size < 2 {
		w.size++
	}
}
