// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"sort"
	"time"
)

// BucketWidth is the width of one trending window.
const BucketWidth = time.Hour

// Bucket returns the hour bucket index containing t.
func Bucket(t time.Time) int64 {
	return t.Unix() / int64(BucketWidth/time.Second)
}

// Velocity is the change in views of productID between the previous and the
// current bucket. A product absent from previous counts as zero there.
func Velocity(current, previous map[string]float64, productID string) float64 {
	return current[productID] - previous[productID]
}

// RankByVelocity ranks the products seen in current by velocity, highest
// first, and returns up to k ids. Ties go to the higher current count, then
// to the smaller id. Products seen only in previous are not ranked.
func RankByVelocity(current, previous map[string]float64, k int) []string {
	if k <= 0 || len(current) == 0 {
		return []string{}
	}

	type ranked struct {
		id       string
		velocity float64
		count    float64
	}
	rows := make([]ranked, 0, len(current))
	for id, count := range current {
		rows = append(rows, ranked{id: id, velocity: Velocity(current, previous, id), count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].velocity != rows[j].velocity {
			return rows[i].velocity > rows[j].velocity
		}
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].id < rows[j].id
	})

	if len(rows) > k {
		rows = rows[:k]
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}
