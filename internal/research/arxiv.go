// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend searches arXiv preprints.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search returns preprints sorted by relevance. Content is the abstract.
func (b *ArxivBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResearchEntry, error) {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	if len(terms) == 0 {
		return nil, errors.New("empty arXiv query")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	reqURL := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, strings.Join(terms, "+"), maxResults)

	body, err := httputil.Get(ctx, b.Client, reqURL, map[string]string{"User-Agent": b.UserAgent})
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	entries := make([]types.ResearchEntry, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		entries = append(entries, types.ResearchEntry{
			Title:   collapseSpace(entry.Title),
			URL:     "https://arxiv.org/abs/" + id,
			Content: collapseSpace(entry.Summary),
		})
	}
	return entries, nil
}

// collapseSpace joins the line-wrapped text of Atom fields.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" gives "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
