// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package leaderboard

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FindBody locates the leaderboard table body (div.leaderboard > table >
// tbody) in a full page and renders it back to HTML.
func FindBody(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse leaderboard page: %w", err)
	}

	container := find(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "leaderboard")
	})
	if container == nil {
		return "", ErrLeaderboardNotFound
	}
	tbody := find(container, func(n *html.Node) bool {
		return n.DataAtom == atom.Tbody && n.Parent != nil && n.Parent.DataAtom == atom.Table
	})
	if tbody == nil {
		return "", ErrLeaderboardNotFound
	}

	var sb strings.Builder
	if err := html.Render(&sb, tbody); err != nil {
		return "", fmt.Errorf("render leaderboard body: %w", err)
	}
	return sb.String(), nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collect(n *html.Node, match func(*html.Node) bool, out *[]*html.Node) {
	if n.Type == html.ElementNode && match(n) {
		*out = append(*out, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, match, out)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text returns the whitespace-normalized text content of n.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
