package model

import "sort"

// SortByOrder sorts items ascending by key. Equal keys keep their incoming
// order, which for store collections is key order.
func SortByOrder[T any](items []T, key func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}

func SortNavigation(items []NavigationItem) {
	SortByOrder(items, func(n NavigationItem) int { return n.Order })
}

func SortHeadings(items []ContentHeading) {
	SortByOrder(items, func(h ContentHeading) int { return h.Order })
}

func SortSections(items []HomepageSection) {
	SortByOrder(items, func(s HomepageSection) int { return s.Order })
}

// NextOrder returns the order for an item appended after orders: max+1, or 1
// for an empty collection. Gaps left by deletes are never filled.
func NextOrder(orders ...int) int {
	if len(orders) == 0 {
		return 1
	}
	highest := orders[0]
	for _, o := range orders[1:] {
		if o > highest {
			highest = o
		}
	}
	return highest + 1
}
