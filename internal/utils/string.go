package utils

import (
	"context"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// FindClosestString returns the candidate with the smallest Levenshtein distance to target,
// ok is false if no candidate differs by at most maxDifferences edits. ctx can be nil.
func FindClosestString(ctx context.Context, candidates []string, target string, maxDifferences int) (closest string, distance int, ok bool) {
	distance = maxDifferences + 1
	targetRunes := []rune(target)

	for _, candidate := range candidates {
		if ctx != nil && ctx.Err() != nil {
			return "", 0, false
		}

		d := levenshtein.DistanceForStrings([]rune(candidate), targetRunes, levenshteinOptions)
		if d < distance {
			closest = candidate
			distance = d
			ok = true
		}
	}

	if !ok {
		return "", 0, false
	}
	return
}

// substitutions cost as much as insertions and deletions.
var levenshteinOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}
