// Package extract reads typed field values out of parsed livechart markup.
//
// Every field is described as an ordered chain of named strategies. The first
// strategy that yields a non-empty value wins, so the fallback policy for a
// field can be inspected and tested one strategy at a time.
package extract

import "github.com/PuerkitoBio/goquery"

// Strategy is one named way to read a text value from a selection.
type Strategy struct {
	Name string
	Read func(sel *goquery.Selection) string
}

// Chain is an ordered list of strategies for one field.
type Chain []Strategy

// First runs the chain in order and returns the first non-empty value
// together with the name of the strategy that produced it.
func (c Chain) First(sel *goquery.Selection) (value string, strategy string, ok bool) {
	if sel == nil {
		return "", "", false
	}
	for _, s := range c {
		text := CollapseSpace(s.Read(sel))
		if text != "" {
			return text, s.Name, true
		}
	}
	return "", "", false
}

// Value is First without the strategy name.
func (c Chain) Value(sel *goquery.Selection) (string, bool) {
	value, _, ok := c.First(sel)
	return value, ok
}

// Names lists the strategies in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name)
	}
	return names
}

func textOf(selector string) func(*goquery.Selection) string {
	return func(sel *goquery.Selection) string {
		return sel.Find(selector).First().Text()
	}
}

func allTextOf(selector string) func(*goquery.Selection) string {
	return func(sel *goquery.Selection) string {
		return sel.Find(selector).Text()
	}
}

func attrOf(selector string, attr string) func(*goquery.Selection) string {
	return func(sel *goquery.Selection) string {
		value, _ := sel.Find(selector).First().Attr(attr)
		return value
	}
}

func ownAttr(attr string) func(*goquery.Selection) string {
	return func(sel *goquery.Selection) string {
		value, _ := sel.Attr(attr)
		return value
	}
}

// orderedSet keeps the first occurrence of each value.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: map[string]struct{}{}}
}

func (s *orderedSet) add(values ...string) {
	for _, value := range values {
		value = CollapseSpace(value)
		if value == "" {
			continue
		}
		if _, exists := s.seen[value]; exists {
			continue
		}
		s.seen[value] = struct{}{}
		s.items = append(s.items, value)
	}
}

func (s *orderedSet) values() []string {
	return s.items
}
