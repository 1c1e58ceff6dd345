// Package preprocess cleans raw author files before n-grams are generated: tagging of
// irrelevant tokens, retweet and short message filtering, language filtering.
package preprocess

import (
	"regexp"
)

// Placeholders substituted for irrelevant tokens.
const (
	URLTag       = "URL"
	UserRefTag   = "REF"
	HashtagTag   = "TAG"
	DateTag      = "DAT"
	TimeTag      = "TIM"
	NumberTag    = "NUM"
	maxTagsCount = 6
)

var (
	urlRegex     = regexp.MustCompile(`((([A-Za-z]{3,9}:(?://)?)(?:[\-;:&=\+\$,\w]+@)?[A-Za-z0-9\.\-]+|(?:www\.|[\-;:&=\+\$,\w]+@)[A-Za-z0-9\.\-]+)((?:/[\+~%/\.\w\-_]*)?\??(?:[\-\+=&;%@\.\w_]*)#?(?:[\.\!/\\\w]*))?)`)
	userRefRegex = regexp.MustCompile(`@\S+`)
	hashtagRegex = regexp.MustCompile(`#[a-zA-Z]+`)
	dateRegex    = regexp.MustCompile(`[0-9]?[0-9][-/][0-9]?[0-9]([-/][0-9][0-9][0-9][0-9])?`)
	timeRegex    = regexp.MustCompile(`[0-9]?[0-9]:[0-9]?[0-9](:[0-9]?[0-9])?`)
	numberRegex  = regexp.MustCompile(`[0-9]+`)
)

// TagOptions selects which kinds of token are replaced.
type TagOptions struct {
	URL     bool
	UserRef bool
	Hashtag bool
	Date    bool
	Time    bool
	Number  bool
}

// AllTags enables every substitution.
func AllTags() TagOptions {
	return TagOptions{URL: true, UserRef: true, Hashtag: true, Date: true, Time: true, Number: true}
}

type substitution struct {
	regex *regexp.Regexp
	tag   string
}

// Tagger replaces URLs, user references, hashtags, dates, times and numbers with fixed
// placeholders. Substitutions run in that order, so a URL is tagged before the numbers
// it contains.
type Tagger struct {
	substitutions []substitution
}

func NewTagger(options TagOptions) Tagger {
	substitutions := make([]substitution, 0, maxTagsCount)
	add := func(enabled bool, regex *regexp.Regexp, tag string) {
		if enabled {
			substitutions = append(substitutions, substitution{regex: regex, tag: tag})
		}
	}
	add(options.URL, urlRegex, URLTag)
	add(options.UserRef, userRefRegex, UserRefTag)
	add(options.Hashtag, hashtagRegex, HashtagTag)
	add(options.Date, dateRegex, DateTag)
	add(options.Time, timeRegex, TimeTag)
	add(options.Number, numberRegex, NumberTag)
	return Tagger{substitutions: substitutions}
}

func (t Tagger) Tag(text string) string {
	for _, s := range t.substitutions {
		text = s.regex.ReplaceAllLiteralString(text, s.tag)
	}
	return text
}
