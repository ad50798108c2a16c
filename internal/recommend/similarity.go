// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package recommend implements user-based collaborative filtering: taste
// similarity between users and scored movie recommendations with
// popularity fallbacks.
package recommend

import (
	"math"
	"sort"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

// Similarity engine constants. Thresholds below these produce too much
// noise to be useful signals.
const (
	// minSharedMovies is the minimum rating-vector overlap for a
	// similarity to be meaningful.
	minSharedMovies = 3

	// minRatingsPerUser is the minimum catalogue size before a user
	// participates in similarity at all, on either side.
	minRatingsPerUser = 5

	// similarityCutoff excludes weak neighbours.
	similarityCutoff = 0.3
)

// CosineSimilarity computes the cosine of two users' rating vectors over
// their intersection of rated movies. Fewer than minSharedMovies shared
// movies, or a zero-magnitude side, yields 0.
func CosineSimilarity(a, b map[int64]float64) float64 {
	var dot, normA, normB float64
	shared := 0

	for movieID, ra := range a {
		rb, ok := b[movieID]
		if !ok {
			continue
		}
		shared++
		dot += ra * rb
		normA += ra * ra
		normB += rb * rb
	}

	if shared < minSharedMovies {
		return 0
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankSimilar scores every candidate vector against the target and
// returns the strongest neighbours, at most topN, sorted by similarity
// descending with user id as the deterministic tie-break.
func rankSimilar(target map[int64]float64, candidates map[int64]map[int64]float64, topN int) []models.SimilarUser {
	if len(target) < minRatingsPerUser {
		return nil
	}

	var similar []models.SimilarUser
	for userID, vector := range candidates {
		if len(vector) < minRatingsPerUser {
			continue
		}
		sim := CosineSimilarity(target, vector)
		if sim > similarityCutoff {
			similar = append(similar, models.SimilarUser{UserID: userID, Similarity: sim})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		if similar[i].Similarity != similar[j].Similarity {
			return similar[i].Similarity > similar[j].Similarity
		}
		return similar[i].UserID < similar[j].UserID
	})

	if topN > 0 && len(similar) > topN {
		similar = similar[:topN]
	}
	return similar
}
