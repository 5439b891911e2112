// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexBackend searches scholarly works on OpenAlex. No key is needed;
// an email joins the polite pool.
type OpenAlexBackend struct {
	Client    *http.Client
	Email     string
	UserAgent string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return "openalex" }

// Search returns works in OpenAlex relevance order. Content is the
// reconstructed abstract, or a byline when the work has none.
func (b *OpenAlexBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResearchEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty OpenAlex query")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > 200 {
		maxResults = 200
	}

	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(maxResults)},
		"page":     {"1"},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	body, err := httputil.Get(ctx, b.Client, openAlexSearchBase+"?"+params.Encode(), map[string]string{
		"Accept":     "application/json",
		"User-Agent": b.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}

	var oar openAlexResponse
	if err := json.Unmarshal(body, &oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	entries := make([]types.ResearchEntry, 0, len(oar.Results))
	for _, work := range oar.Results {
		entries = append(entries, types.ResearchEntry{
			Title:   work.Title,
			URL:     work.link(),
			Content: work.content(),
		})
	}
	return entries, nil
}

// link prefers the open access copy, then the DOI, then the OpenAlex id.
func (w openAlexWork) link() string {
	switch {
	case w.OpenAccess.OAURL != "":
		return w.OpenAccess.OAURL
	case w.DOI != "":
		return w.DOI
	default:
		return w.ID
	}
}

func (w openAlexWork) content() string {
	if abstract := reconstructAbstract(w.AbstractInvertedIndex); abstract != "" {
		return abstract
	}
	var authors []string
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}
	byline := strings.Join(authors, ", ")
	if w.PublicationYear > 0 {
		if byline == "" {
			return fmt.Sprintf("Published %d.", w.PublicationYear)
		}
		return fmt.Sprintf("Published %d by %s.", w.PublicationYear, byline)
	}
	if byline != "" {
		return "By " + byline + "."
	}
	return ""
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index, which maps
// each word to its positions, back to plain text.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}
