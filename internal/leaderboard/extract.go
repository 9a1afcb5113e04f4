// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package leaderboard converts a rendered club leaderboard into typed athlete
records.

The input is the table body of the club leaderboard, one row per athlete:

	<tr>
	  <td class="athlete"><a class="athlete-name" href="/athletes/123">Jane Doe</a></td>
	  <td class="distance">42.3 km</td>
	  <td class="num-activities">5</td>
	  <td class="average-pace">5:21 /km</td>
	  <td class="elev-gain">1,234 m</td>
	</tr>

Rows are extracted independently. A row that fails to parse yields an
*ExtractionError in Result.Skipped and never aborts the batch.

Placeholders: the leaderboard renders "--" for pace and elevation when an
athlete has no data; both map to 0.
*/
package leaderboard

import (
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cell classes used by the leaderboard table.
const (
	FieldAthlete   = "athlete"
	FieldDistance  = "distance"
	FieldRuns      = "num-activities"
	FieldPace      = "average-pace"
	FieldElevation = "elev-gain"
)

const placeholder = "--"

// Athlete is one leaderboard row.
type Athlete struct {
	AthleteID int64   `json:"athlete_id"`
	Name      string  `json:"name"`
	Distance  float64 `json:"distance_km"`
	Runs      int     `json:"runs"`
	Pace      int     `json:"pace_seconds"` // seconds per km, 0 = no data
	Elevation float64 `json:"elevation_m"`  // 0 = no data
}

// Result holds the athletes extracted from a table body and the rows that
// were skipped.
type Result struct {
	Athletes []Athlete
	Skipped  []*ExtractionError
}

// SkippedRows returns the number of rows that could not be extracted.
func (r *Result) SkippedRows() int {
	return len(r.Skipped)
}

// Extract parses a leaderboard table body. The fragment may be a complete
// <tbody> element or a bare sequence of <tr> rows.
func Extract(r io.Reader) (*Result, error) {
	context := &html.Node{Type: html.ElementNode, Data: "table", DataAtom: atom.Table}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse leaderboard fragment: %w", err)
	}

	var rows []*html.Node
	for _, n := range nodes {
		collect(n, func(c *html.Node) bool { return c.DataAtom == atom.Tr }, &rows)
	}

	res := &Result{Athletes: make([]Athlete, 0, len(rows))}
	for i, tr := range rows {
		a, xerr := extractRow(i, tr)
		if xerr != nil {
			res.Skipped = append(res.Skipped, xerr)
			continue
		}
		res.Athletes = append(res.Athletes, a)
	}
	return res, nil
}

// ExtractString is a convenience wrapper around Extract.
func ExtractString(fragment string) (*Result, error) {
	return Extract(strings.NewReader(fragment))
}

func extractRow(row int, tr *html.Node) (Athlete, *ExtractionError) {
	var a Athlete

	athleteCell := findCell(tr, FieldAthlete)
	if athleteCell == nil {
		return a, missing(row, FieldAthlete)
	}
	link := find(athleteCell, func(n *html.Node) bool {
		return n.DataAtom == atom.A && attr(n, "href") != ""
	})
	if link == nil {
		return a, missing(row, FieldAthlete)
	}
	id, err := AthleteIDFromHref(attr(link, "href"))
	if err != nil {
		return a, malformed(row, FieldAthlete, attr(link, "href"), err)
	}
	a.AthleteID = id

	nameNode := find(athleteCell, func(n *html.Node) bool {
		return n.DataAtom == atom.A && hasClass(n, "athlete-name")
	})
	if nameNode == nil {
		nameNode = link
	}
	a.Name = text(nameNode)

	raw, xerr := cellText(tr, row, FieldDistance)
	if xerr != nil {
		return a, xerr
	}
	if a.Distance, err = ParseDistance(raw); err != nil {
		return a, malformed(row, FieldDistance, raw, err)
	}

	raw, xerr = cellText(tr, row, FieldRuns)
	if xerr != nil {
		return a, xerr
	}
	if a.Runs, err = ParseRuns(raw); err != nil {
		return a, malformed(row, FieldRuns, raw, err)
	}

	raw, xerr = cellText(tr, row, FieldPace)
	if xerr != nil {
		return a, xerr
	}
	if a.Pace, err = ParsePace(raw); err != nil {
		return a, malformed(row, FieldPace, raw, err)
	}

	raw, xerr = cellText(tr, row, FieldElevation)
	if xerr != nil {
		return a, xerr
	}
	if a.Elevation, err = ParseElevation(raw); err != nil {
		return a, malformed(row, FieldElevation, raw, err)
	}

	return a, nil
}

// AthleteIDFromHref returns the trailing path segment of a profile link as
// an athlete id.
func AthleteIDFromHref(href string) (int64, error) {
	p := href
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	seg := path.Base(strings.TrimRight(p, "/"))
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("no athlete id in %q", href)
	}
	return id, nil
}

// ParseDistance parses "42.3 km" or "42,3km" into kilometres.
func ParseDistance(raw string) (float64, error) {
	s := firstToken(raw)
	s = strings.TrimSuffix(strings.ToLower(s), "km")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty distance")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("distance is not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative distance")
	}
	return v, nil
}

// ParseRuns parses the activity count.
func ParseRuns(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative activity count")
	}
	return n, nil
}

// ParsePace parses "m:ss" (optionally followed by "/km") into seconds per
// km. The placeholder "--" yields 0.
func ParsePace(raw string) (int, error) {
	s := strings.TrimSpace(strings.SplitN(raw, "/", 2)[0])
	if s == placeholder || s == "" {
		return 0, nil
	}
	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("pace not in m:ss form")
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.Atoi(sec)
	if err != nil {
		return 0, err
	}
	if mins < 0 || secs < 0 || secs > 59 {
		return 0, fmt.Errorf("pace out of range")
	}
	return mins*60 + secs, nil
}

// ParseElevation parses "1,234 m" into metres. The placeholder "--" yields 0.
func ParseElevation(raw string) (float64, error) {
	s := firstToken(raw)
	if s == placeholder || s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimRightFunc(s, unicode.IsLetter)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("elevation is not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative elevation")
	}
	return v, nil
}

func firstToken(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func cellText(tr *html.Node, row int, field string) (string, *ExtractionError) {
	td := findCell(tr, field)
	if td == nil {
		return "", missing(row, field)
	}
	return text(td), nil
}

func findCell(tr *html.Node, class string) *html.Node {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td && hasClass(c, class) {
			return c
		}
	}
	return nil
}
