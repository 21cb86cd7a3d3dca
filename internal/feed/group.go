// Package feed turns the flat video list from the server into per-owner groups
// and the home grid items built from them.
package feed

import "github.com/psds-microservice/citypeople-service/internal/model"

// Group buckets records by owner. Owners appear in the order of their first
// record, and records keep their relative order inside each owner.
func Group(records []model.VideoRecord) []model.UserVideoGroup {
	groups := make([]model.UserVideoGroup, 0)
	index := make(map[int]int, len(records))
	for _, r := range records {
		i, ok := index[r.OwnerID]
		if !ok {
			i = len(groups)
			index[r.OwnerID] = i
			groups = append(groups, model.UserVideoGroup{
				OwnerID:     r.OwnerID,
				DisplayName: r.DisplayName,
			})
		}
		groups[i].Videos = append(groups[i].Videos, r)
	}
	return groups
}

// Flatten is the inverse of Group: owners in order, each owner's clips in order.
func Flatten(groups []model.UserVideoGroup) []model.VideoRecord {
	n := 0
	for _, g := range groups {
		n += len(g.Videos)
	}
	out := make([]model.VideoRecord, 0, n)
	for _, g := range groups {
		out = append(out, g.Videos...)
	}
	return out
}

// IndexOf returns the position of the owner's group, or -1.
func IndexOf(groups []model.UserVideoGroup, ownerID int) int {
	for i, g := range groups {
		if g.OwnerID == ownerID {
			return i
		}
	}
	return -1
}
