// Package schedule groups season game instances by calendar date.
package schedule

import (
	"encoding/json"
	"sort"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
)

// Bucket holds every game scheduled on one date, in the order they were received.
type Bucket struct {
	Key   string                `json:"key"`
	Date  calendar.Date         `json:"date"`
	Games []season.GameInstance `json:"games"`
}

// View is the season schedule ordered ascending by date. Buckets are never empty.
type View struct {
	Buckets []Bucket
	index   map[string]int
}

// Build groups entries by date key and orders the buckets chronologically.
// Buckets are sorted on the decoded date; "2024-10-1" sorts after "2024-9-2".
func Build(entries []season.GameInstance) View {
	byKey := make(map[string]*Bucket)
	order := make([]string, 0)
	for _, entry := range entries {
		key := entry.Date.Key()
		bucket, ok := byKey[key]
		if !ok {
			// Key is injective over dates, so the first entry's date speaks for the bucket.
			bucket = &Bucket{Key: key, Date: entry.Date}
			byKey[key] = bucket
			order = append(order, key)
		}
		bucket.Games = append(bucket.Games, entry)
	}

	buckets := make([]Bucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, *byKey[key])
	}
	sort.Slice(buckets, func(i, j int) bool {
		return calendar.Compare(buckets[i].Date, buckets[j].Date) < 0
	})

	return newView(buckets)
}

// Flatten concatenates the games of every series, in series order.
func Flatten(series []season.Series) []season.GameInstance {
	return season.Season{Series: series}.Games()
}

func newView(buckets []Bucket) View {
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Key] = i
	}
	return View{Buckets: buckets, index: index}
}

// Len returns the number of dates with at least one game.
func (v View) Len() int {
	return len(v.Buckets)
}

// Total returns the number of game instances across all buckets.
func (v View) Total() int {
	total := 0
	for _, b := range v.Buckets {
		total += len(b.Games)
	}
	return total
}

// Keys returns the date keys in chronological order.
func (v View) Keys() []string {
	keys := make([]string, len(v.Buckets))
	for i, b := range v.Buckets {
		keys[i] = b.Key
	}
	return keys
}

// Bucket returns the bucket for a date key.
func (v View) Bucket(key string) (Bucket, bool) {
	i, ok := v.lookup(key)
	if !ok {
		return Bucket{}, false
	}
	return v.Buckets[i], true
}

// Games returns the games scheduled under a date key, or nil when the key is absent.
func (v View) Games(key string) []season.GameInstance {
	b, ok := v.Bucket(key)
	if !ok {
		return nil
	}
	return b.Games
}

// On returns the games scheduled on the given date.
func (v View) On(date calendar.Date) []season.GameInstance {
	return v.Games(date.Key())
}

// Upcoming returns the buckets on or after the given date.
func (v View) Upcoming(from calendar.Date) []Bucket {
	i := sort.Search(len(v.Buckets), func(i int) bool {
		return calendar.Compare(v.Buckets[i].Date, from) >= 0
	})
	return v.Buckets[i:]
}

func (v View) lookup(key string) (int, bool) {
	if v.index != nil {
		i, ok := v.index[key]
		return i, ok
	}
	for i, b := range v.Buckets {
		if b.Key == key {
			return i, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the view as its ordered bucket list.
func (v View) MarshalJSON() ([]byte, error) {
	if v.Buckets == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Buckets)
}

// UnmarshalJSON restores a view from its ordered bucket list.
func (v *View) UnmarshalJSON(data []byte) error {
	var buckets []Bucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return err
	}
	*v = newView(buckets)
	return nil
}
