package preprocess

import (
	"authorship-lab/domain"
	"regexp"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// retweetRegex matches "RT " at the start of a message, or "RT" followed by a user
// reference anywhere after a blank.
var retweetRegex = regexp.MustCompile(`(^RT\s)|(?:^|\s)RT\s*@[0-9a-zA-Z_]+`)

func IsRetweet(text string) bool {
	return retweetRegex.MatchString(text)
}

// MessageFilter drops retweets, messages with too few words and messages holding a
// blocked term.
type MessageFilter struct {
	filterRetweets bool
	minWords       int
	blocklist      *Blocklist
}

func NewMessageFilter(filterRetweets bool, minWords int, blocklist *Blocklist) MessageFilter {
	return MessageFilter{filterRetweets: filterRetweets, minWords: minWords, blocklist: blocklist}
}

func (f MessageFilter) Keep(message domain.Message) bool {
	if f.filterRetweets && IsRetweet(message.Text) {
		return false
	}
	if len(strings.Fields(message.Text)) < f.minWords {
		return false
	}
	if f.blocklist != nil && f.blocklist.Contains(message.Text) {
		return false
	}
	return true
}

// LanguageFilter keeps the messages detected as written in one language.
type LanguageFilter struct {
	language string
}

// NewLanguageFilter takes an ISO 639-1 code such as "en" or "pt".
func NewLanguageFilter(language string) LanguageFilter {
	return LanguageFilter{language: strings.ToLower(language)}
}

// Detect returns the ISO 639-1 code of the text, empty when no language is recognized.
func Detect(text string) string {
	info := whatlanggo.Detect(text)
	return info.Lang.Iso6391()
}

func (f LanguageFilter) Keep(message domain.Message) bool {
	return Detect(message.Text) == f.language
}

// Blocklist finds blocked terms in a message whatever their case and punctuation.
type Blocklist struct {
	matcher *goahocorasick.Machine
}

// NewBlocklist builds the automaton of the terms. It returns nil when no term is given.
func NewBlocklist(terms []string) (*Blocklist, error) {
	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		if normalized := normalize(term); len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Blocklist{matcher: m}, nil
}

func (b *Blocklist) Contains(text string) bool {
	normalized := normalize(text)
	if len(normalized) == 0 {
		return false
	}
	return len(b.matcher.MultiPatternSearch(normalized, true)) > 0
}

// normalize lower-cases the text and drops punctuation and symbols.
func normalize(text string) []rune {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}
