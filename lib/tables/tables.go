// Package tables turns sports-reference HTML stat tables into ordered
// row maps keyed by each cell's data-stat attribute.
package tables

import (
	"fmt"
	"regexp"
	"strings"

	"sportsref/lib/entity"
	"sportsref/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Row is one table row, keyed by data-stat. Cells containing anchors are
// flattened to the linked entity's ID.
type Row map[string]string

// PartialTableKey marks rows carried in `.partial_table` franchise
// sub-rows; callers usually filter these out.
const PartialTableKey = "has_class_partial_table"

// Parse extracts the rows of one stat table. The selection must contain
// the table element itself; a missing table or header yields
// entity.ErrParseFailed.
func Parse(sel *goquery.Selection) ([]Row, error) {
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: table not found", entity.ErrParseFailed)
	}

	var columns []string
	sel.Find("thead tr").Last().Find("th[data-stat]").Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, th.AttrOr("data-stat", ""))
	})
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table has no data-stat header", entity.ErrParseFailed)
	}

	var rows []Row
	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") || tr.HasClass("stat_total") || tr.HasClass("stat_average") {
			return
		}

		row := Row{}
		if tr.HasClass("partial_table") {
			row[PartialTableKey] = "true"
		}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			stat := cell.AttrOr("data-stat", "")
			if stat == "" {
				return
			}
			row[stat] = FlattenLinks(cell)
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	return rows, nil
}

// ParseInfo extracts two-column label/value tables such as the box score
// "Game Info" and officials tables. Labels are normalized to lowercase
// snake case, so "Vegas Line" becomes "vegas_line".
func ParseInfo(sel *goquery.Selection) (map[string]string, error) {
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: info table not found", entity.ErrParseFailed)
	}

	info := map[string]string{}
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		label := tr.Find("th").First()
		value := tr.Find("td").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		info[normalizeLabel(label.Text())] = FlattenLinks(value)
	})
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: info table has no label/value rows", entity.ErrParseFailed)
	}

	return info, nil
}

func normalizeLabel(label string) string {
	label = strings.ToLower(htmlutil.CleanText(label))
	label = strings.ReplaceAll(label, " ", "_")
	return strings.ReplaceAll(label, "/", "_")
}

// FlattenLinks renders a cell to text with every anchor replaced by the
// ID of the page it points to.
func FlattenLinks(cell *goquery.Selection) string {
	var b strings.Builder
	cell.Contents().Each(func(_ int, node *goquery.Selection) {
		if node.Is("a") {
			if id := RelURLToID(node.AttrOr("href", "")); id != "" {
				b.WriteString(id)
				return
			}
		}
		for _, n := range node.Nodes {
			b.WriteString(htmlutil.GetText(n))
		}
	})
	return htmlutil.CleanText(b.String())
}

var relURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/teams/([a-zA-Z]{2,3})(?:/|$)`),
	regexp.MustCompile(`^/boxscores/([\w.]+)\.html?$`),
	regexp.MustCompile(`^/players/[A-Za-z]/(\w+)\.html?$`),
	regexp.MustCompile(`^/coaches/(\w+)\.html?$`),
	regexp.MustCompile(`^/refs/(\w+)\.html?$`),
	regexp.MustCompile(`^/stadiums/(\w+)\.html?$`),
	regexp.MustCompile(`^/schools/([\w-]+)(?:/|$)`),
	regexp.MustCompile(`^/years/(\d{4})`),
}

// RelURLToID extracts the natural key a relative sports-reference URL
// points at: "/teams/nwe/2015.htm" -> "nwe",
// "/boxscores/201509100nwe.htm" -> "201509100nwe". Returns "" when the
// URL names no known entity.
func RelURLToID(href string) string {
	for _, pattern := range relURLPatterns {
		if m := pattern.FindStringSubmatch(href); m != nil {
			return m[1]
		}
	}
	return ""
}
