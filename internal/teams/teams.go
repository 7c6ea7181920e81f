// Package teams scrapes the LaLiga team roster (name + badge URL) from the
// marca.com teams page.
package teams

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const DefaultURL = "https://www.marca.com/futbol/primera/equipos.html"

const cardHeaderClass = "ue-c-sports-card__header"

type Team struct {
	Name     string `json:"name"`
	BadgeURL string `json:"badge_url"`
}

type Fetcher struct {
	url        string
	httpClient *http.Client
}

func NewFetcher(url string, httpClient *http.Client) *Fetcher {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{url: url, httpClient: httpClient}
}

// Fetch downloads and parses the roster page.
func (f *Fetcher) Fetch(ctx context.Context) ([]Team, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teams: fetch roster page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("teams: unexpected status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse extracts one Team per sports-card header in the document.
func Parse(r io.Reader) ([]Team, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("teams: parse html: %w", err)
	}

	var teams []Team
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, cardHeaderClass) {
			t := Team{
				Name:     strings.TrimSpace(textOf(findElement(n, "h3"))),
				BadgeURL: attr(findElement(n, "img"), "src"),
			}
			if t.Name != "" {
				teams = append(teams, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return teams, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
