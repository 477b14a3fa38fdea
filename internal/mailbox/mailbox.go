// Package mailbox supplies raw order messages to the ingestion pipeline.
// The production mailbox lives behind an IMAP connector; here messages come
// from JSONL exports or a spool directory, which is also what the tests use.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Message is one raw email: subject plus plain-text body. HTML holds the
// HTML part for messages that carried no plain text.
type Message struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Body returns the plain-text body, falling back to the stripped HTML part.
func (m Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	if m.HTML != "" {
		return StripHTML(m.HTML)
	}
	return ""
}

// Source fetches a batch of candidate messages.
type Source interface {
	Fetch(ctx context.Context) ([]Message, error)
}

// FileSource reads messages from a JSONL file, one message per line.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (f FileSource) Fetch(ctx context.Context) ([]Message, error) {
	return LoadFromJSONL(f.Path)
}

// LoadFromJSONL loads messages from a JSONL file. Malformed lines are
// skipped with a warning rather than failing the batch.
func LoadFromJSONL(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var msgs []Message
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

// SpoolDir reads messages from a directory: *.json files hold one Message
// each, *.txt files become bodies with the subject taken from the filename.
// Files are returned in name order, which for spooled mail means arrival
// order.
type SpoolDir struct {
	Dir string
}

// Fetch implements Source.
func (s SpoolDir) Fetch(ctx context.Context) ([]Message, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read spool dir %s: %w", s.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var msgs []Message
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Dir, name)

		switch strings.ToLower(filepath.Ext(name)) {
		case ".json":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("Warning: skipping malformed message file %s: %v", path, err)
				continue
			}
			msgs = append(msgs, msg)
		case ".txt", ".eml":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			msgs = append(msgs, Message{
				Subject: strings.TrimSuffix(name, filepath.Ext(name)),
				Text:    string(data),
			})
		}
	}

	return msgs, nil
}

// blockTags close a visual line; their boundaries become newlines so the
// line-oriented parser sees the same structure a text rendering would.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "ul": true, "ol": true,
}

// StripHTML extracts the text content of an HTML fragment, preserving line
// breaks at block-element boundaries. Parsing failures fall back to the raw
// input.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
