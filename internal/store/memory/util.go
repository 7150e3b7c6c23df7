package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

func sortByCreatedDesc[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
}
