package pagination

import "strconv"

const (
	// compactThreshold is the page count up to which every page is listed.
	compactThreshold = 7

	// neighbours is the number of pages shown on each side of the current page.
	neighbours = 2

	// EllipsisText is how an ellipsis token renders.
	EllipsisText = "..."
)

// Token is one element of a page-range display: a page number or an ellipsis.
type Token struct {
	Page     int
	Ellipsis bool
}

// String renders the token as a page number or EllipsisText.
func (t Token) String() string {
	if t.Ellipsis {
		return EllipsisText
	}
	return strconv.Itoa(t.Page)
}

func pageToken(n int) Token { return Token{Page: n} }

var ellipsis = Token{Ellipsis: true}

// Range produces the compact page-number sequence for a pager.
//
// Up to seven pages are listed in full. Beyond that the first and last page
// are always present, up to two pages on each side of current are shown, and a
// single ellipsis replaces each skipped run between shown pages.
func Range(current, totalPages int) []Token {
	if totalPages < 1 {
		totalPages = 1
	}
	if totalPages <= compactThreshold {
		tokens := make([]Token, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			tokens = append(tokens, pageToken(i))
		}
		return tokens
	}

	left := max(2, current-neighbours)
	right := min(totalPages-1, current+neighbours)

	tokens := []Token{pageToken(1)}
	if left > 2 {
		tokens = append(tokens, ellipsis)
	}
	for i := left; i <= right; i++ {
		tokens = append(tokens, pageToken(i))
	}
	if right < totalPages-1 {
		tokens = append(tokens, ellipsis)
	}
	return append(tokens, pageToken(totalPages))
}

// Strings renders tokens for display.
func Strings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}
