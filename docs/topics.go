// Package docs holds the snapdiff documentation topics, embedded in the binary.
//
// Each topic is a markdown file whose first line is its title. The readme is
// the entry point: its topic index is generated from the embedded files.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// readme is the topic shown when none is asked for. It is not listed in the index.
const readme = "readme"

// ErrUnknownTopic is returned for a topic that is not embedded.
var ErrUnknownTopic = errors.New("unknown topic")

// Topic describes a documentation topic.
type Topic struct {
	Name  string // file name without extension, e.g. "keys"
	Title string // first heading
}

// Topics lists the documentation topics, sorted by name, readme excluded.
func Topics() ([]Topic, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	for _, m := range matches {
		name := strings.TrimSuffix(m, ".md")
		if name == readme {
			continue
		}
		content, err := files.ReadFile(m)
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content)})
	}
	slices.SortFunc(topics, func(a, b Topic) int { return strings.Compare(a.Name, b.Name) })
	return topics, nil
}

// title returns the text of the first line, without the heading marker.
func title(content []byte) string {
	first, _, _ := strings.Cut(string(content), "\n")
	return strings.TrimSpace(strings.TrimLeft(first, "#"))
}

// Get returns the content of a topic.
//
// The readme ends with the index of the other topics. Unknown topics return an
// error wrapping ErrUnknownTopic that lists the available ones.
func Get(name string) (string, error) {
	topics, err := Topics()
	if err != nil {
		return "", err
	}
	if name != readme && !slices.ContainsFunc(topics, func(t Topic) bool { return t.Name == name }) {
		names := make([]string, 0, len(topics)+1)
		names = append(names, readme)
		for _, t := range topics {
			names = append(names, t.Name)
		}
		return "", fmt.Errorf("%w %q, available topics: %s", ErrUnknownTopic, name, strings.Join(names, ", "))
	}

	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", err
	}
	if name != readme {
		return string(content), nil
	}

	var b strings.Builder
	b.Write(content)
	b.WriteString("\nAvailable topics, use `snapdiff topic <topic>` to read them:\n\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "* %s: %s\n", t.Name, t.Title)
	}
	return b.String(), nil
}

// GetAll concatenates several topics, "*" stands for every topic.
func GetAll(names ...string) (string, error) {
	var expanded []string
	for _, n := range names {
		if n != "*" {
			expanded = append(expanded, n)
			continue
		}
		topics, err := Topics()
		if err != nil {
			return "", err
		}
		for _, t := range topics {
			expanded = append(expanded, t.Name)
		}
	}

	var b strings.Builder
	for i, n := range expanded {
		content, err := Get(n)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(content)
	}
	return b.String(), nil
}
