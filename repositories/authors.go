package repositories

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ListMessageFiles returns the author message files of dir sorted by name.
func ListMessageFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+MessageFileExtension))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// FilterAuthors lists the author entries of dir, sorted by name, keeping those whose
// message count prefix (<count>_<name>) reaches minTweets. Entries without a numeric
// prefix only qualify when minTweets is zero.
func FilterAuthors(dir string, minTweets int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if minTweets > 0 {
			count, ok := TweetCount(entry.Name())
			if !ok || count < minTweets {
				continue
			}
		}
		selected = append(selected, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(selected)
	return selected, nil
}

// TweetCount parses the message count prefix of an author entry name.
func TweetCount(name string) (int, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	count, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return count, true
}

// AuthorName strips the message count prefix from an author entry name, so that the
// same author is recognized in corpora of different sizes.
func AuthorName(name string) string {
	if _, ok := TweetCount(name); ok {
		_, rest, _ := strings.Cut(name, "_")
		return rest
	}
	return name
}
