package keywords

import (
	"bufio"
	_ "embed"
	"strings"
	"sync"
)

//go:embed stopwords_en.txt
var stopWordsFile string

// stopWords parses the embedded list on first use. The returned set is shared
// and must not be modified.
var stopWords = sync.OnceValue(func() map[string]struct{} {
	set := make(map[string]struct{}, 400)
	sc := bufio.NewScanner(strings.NewReader(stopWordsFile))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
})

// Init loads the stop-word set. Calling it is optional (Extract loads lazily)
// and idempotent; servers call it at startup so the first request does not
// pay for parsing.
func Init() int {
	return len(stopWords())
}

// IsStopWord reports whether w (already lowercased) is an English stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords()[w]
	return ok
}
