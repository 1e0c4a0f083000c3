package services

import "sort"

// AllowList restricts the bot to a fixed set of Telegram user IDs.
// It is built once at startup and never mutated, so concurrent reads
// need no locking.
type AllowList struct {
	ids map[int64]struct{}
}

// NewAllowList creates an allow-list from ids. An empty list allows everyone.
func NewAllowList(ids []int64) *AllowList {
	al := &AllowList{
		ids: make(map[int64]struct{}, len(ids)),
	}
	for _, id := range ids {
		al.ids[id] = struct{}{}
	}
	return al
}

// IsAllowed checks if a user may use the bot
func (al *AllowList) IsAllowed(userID int64) bool {
	// If no allow-list configured, allow all
	if al == nil || len(al.ids) == 0 {
		return true
	}
	_, ok := al.ids[userID]
	return ok
}

// Len returns the number of configured IDs
func (al *AllowList) Len() int {
	if al == nil {
		return 0
	}
	return len(al.ids)
}

// IDs returns the configured IDs in ascending order
func (al *AllowList) IDs() []int64 {
	if al == nil {
		return nil
	}
	out := make([]int64, 0, len(al.ids))
	for id := range al.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
