package summary

import "fmt"

// Language is a summary language and its ISO 639-1 code.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Length is a summary length option.
type Length struct {
	Label string `json:"label"`
	Words int    `json:"words"`
}

// Defaults used when a session has not chosen yet.
const (
	DefaultLanguage = "English"
	DefaultLength   = "Medium (250 words)"
)

// Languages lists the supported summary languages in display order.
var Languages = []Language{
	{"English", "en"},
	{"Hindi", "hi"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Chinese", "zh"},
	{"Japanese", "ja"},
	{"Korean", "ko"},
	{"Russian", "ru"},
	{"Arabic", "ar"},
	{"Bengali", "bn"},
	{"Tamil", "ta"},
	{"Telugu", "te"},
}

// Lengths lists the summary lengths in display order.
var Lengths = []Length{
	{"Short (150 words)", 150},
	{"Medium (250 words)", 250},
	{"Long (300 words)", 300},
}

// LanguageCode returns the code for a language name.
func LanguageCode(name string) (string, bool) {
	for _, l := range Languages {
		if l.Name == name {
			return l.Code, true
		}
	}
	return "", false
}

// WordCount returns the target word count for a length label.
func WordCount(label string) (int, bool) {
	for _, l := range Lengths {
		if l.Label == label {
			return l.Words, true
		}
	}
	return 0, false
}

func mustWordCount(label string) int {
	n, ok := WordCount(label)
	if !ok {
		panic(fmt.Sprintf("summary: unknown length %q", label))
	}
	return n
}
