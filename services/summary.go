package services

import (
	"fmt"
	"strings"

	"movequote/catalog"
)

// Packing item ids the dispatch summary abbreviates.
const (
	itemBasket       = "basket"
	itemMediumBasket = "medium_basket"
	itemMediumBox    = "medium_box"
	itemBookBasket   = "book_basket"
)

// DispatchSummary renders the short text block staff paste into the
// dispatch chat: route, phone, vehicles and crew, baskets, access at both
// ends, deposit and balance, then requests.
func DispatchSummary(cat *catalog.Catalog, res Result) []string {
	s := res.State
	var lines []string

	lines = append(lines, fmt.Sprintf("%s - %s", s.FromLocation, s.ToLocation))
	if phone := strings.TrimSpace(s.CustomerPhone); phone != "" && phone != "-" {
		lines = append(lines, phone)
	}

	crew := fmt.Sprintf("%d", res.Quote.Personnel.FinalMen)
	if res.Quote.Personnel.FinalWomen > 0 {
		crew = fmt.Sprintf("%d+%d", res.Quote.Personnel.FinalMen, res.Quote.Personnel.FinalWomen)
	}
	lines = append(lines, fmt.Sprintf("%s | %s", dispatchVehicles(s), crew))

	if baskets := basketSummary(cat, s); baskets != "" {
		lines = append(lines, baskets)
	}

	lines = append(lines, fmt.Sprintf("출%s도%s", accessShort(cat, s.FromMethod), accessShort(cat, s.ToMethod)))

	remaining := res.Quote.Remaining(s.Deposit)
	lines = append(lines, fmt.Sprintf("계 %s / 잔 %s", FormatManwon(s.Deposit), FormatManwon(remaining)))

	if note := strings.TrimSpace(s.SpecialNotes); note != "" && note != "-" {
		lines = append(lines, "요청: "+note)
	}
	return lines
}

func dispatchVehicles(s QuoteState) string {
	var parts []string
	d := s.Dispatched
	if d.OneTon > 0 {
		parts = append(parts, fmt.Sprintf("1t:%d", d.OneTon))
	}
	if d.TwoHalfTon > 0 {
		parts = append(parts, fmt.Sprintf("2.5t:%d", d.TwoHalfTon))
	}
	if d.ThreeHalfTon > 0 {
		parts = append(parts, fmt.Sprintf("3.5t:%d", d.ThreeHalfTon))
	}
	if d.FiveTon > 0 {
		parts = append(parts, fmt.Sprintf("5t:%d", d.FiveTon))
	}
	if len(parts) > 0 {
		return strings.Join(parts, "/")
	}
	if s.FinalVehicle != "" {
		return s.FinalVehicle
	}
	return "정보없음"
}

// basketSummary reads the packing counters of the current move type. The
// medium count prefers boxes and falls back to medium baskets.
func basketSummary(cat *catalog.Catalog, s QuoteState) string {
	section, ok := cat.PackingSection(s.MoveType)
	if !ok {
		return ""
	}
	qty := func(item string) int {
		return s.Quantity(QuantityKey{MoveType: s.MoveType, Section: section.ID, Item: item})
	}
	b, book := qty(itemBasket), qty(itemBookBasket)
	med := qty(itemMediumBox)
	if med == 0 {
		med = qty(itemMediumBasket)
	}
	if b+med+book == 0 {
		return ""
	}
	return fmt.Sprintf("바%d 중%d 책%d", b, med, book)
}

func accessShort(cat *catalog.Catalog, methodID string) string {
	m, ok := cat.AccessMethod(methodID)
	if !ok || m.Short == "" {
		return "?"
	}
	return m.Short
}
