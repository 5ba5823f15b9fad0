package bank

import "github.com/silverlode-studios/soundrig/internal/transcript/phonetic"

// suggester is the minimal phonetic-matcher surface [Suggest] depends on,
// satisfied by *phonetic.Matcher.
type suggester interface {
	Match(word string, entities []string) (corrected string, confidence float64, matched bool)
}

var defaultSuggester suggester = phonetic.New()

// Suggest finds the registered event name phonetically closest to a
// not-found lookup, for inclusion in registry "not found" log lines (spec
// §7 Registry: not-found). Returns ok=false when nothing is registered or
// no candidate clears the matcher's threshold.
func (r *Registry) Suggest(name string) (suggestion string, ok bool) {
	names := r.Names()
	if len(names) == 0 {
		return "", false
	}
	corrected, _, matched := defaultSuggester.Match(name, names)
	if !matched {
		return "", false
	}
	return corrected, true
}
