// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"maps"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/models"
)

// Totals is the aggregate of every table of a precinct.
type Totals struct {
	ByParty    map[string]int
	TotalVotes int
}

// Aggregate sums each party's votes across the present tables and refreshes
// the tally's cached totals. Calling it again without a mutation in between
// returns the same result.
func Aggregate(pt *PrecinctTally) Totals {
	byParty := make(map[string]int)
	total := 0
	for _, t := range pt.tables {
		for party, v := range t.votes {
			byParty[party] += v
			total += v
		}
	}

	pt.totals = byParty
	pt.stale = false

	return Totals{ByParty: maps.Clone(byParty), TotalVotes: total}
}

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

// DisplayPercent is the percentage shown to operators, rounded to 1 decimal.
func DisplayPercent(part, total int) float64 {
	return round(Percentage(part, total), 1)
}

// LedgerPercent is the percentage written to result rows, with 2 decimals.
func LedgerPercent(part, total int) string {
	return strconv.FormatFloat(round(Percentage(part, total), 2), 'f', 2, 64)
}

// Summary lists the candidates that received votes, in directory order,
// with display percentages. Parties outside the candidate list are counted
// in the total but not listed.
func Summary(pt *PrecinctTally, candidates []models.Candidate) ([]models.TotalLine, int) {
	totals := Aggregate(pt)

	lines := []models.TotalLine{}
	if totals.TotalVotes == 0 {
		return lines, 0
	}

	for _, c := range candidates {
		votes := totals.ByParty[c.Party]
		if votes <= 0 {
			continue
		}
		pct := DisplayPercent(votes, totals.TotalVotes)
		lines = append(lines, models.TotalLine{
			Party:      c.Party,
			Name:       c.Name,
			Color:      c.Color,
			Votes:      votes,
			Percentage: pct,
			Label:      fmt.Sprintf("%s votos (%.1f%%)", humanize.Comma(int64(votes)), pct),
		})
	}
	return lines, totals.TotalVotes
}
