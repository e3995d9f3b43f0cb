package services

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var krPrinter = message.NewPrinter(language.Korean)

// FormatKRW formats a won amount with thousands separators and the 원
// suffix, e.g. 1,250,000원. Negative amounts keep a leading minus.
func FormatKRW(amount int64) string {
	return krPrinter.Sprintf("%d", amount) + "원"
}

// FormatManwon abbreviates an amount to whole 만원 units for the dispatch
// summary: 450000 → "45만". Amounts under 10,000 stay in 원; zero is "0원".
func FormatManwon(amount int64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	if abs >= 10000 {
		return strconv.FormatInt(amount/10000, 10) + "만"
	}
	return strconv.FormatInt(amount, 10) + "원"
}

// FormatTons renders a waste tonnage with one decimal, e.g. "1.5톤".
func FormatTons(t float64) string {
	return strconv.FormatFloat(t, 'f', 1, 64) + "톤"
}

// FormatVolume renders a volume in cubic meters with two decimals.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " m³"
}

// FormatWeight renders a weight in kilograms with thousands separators.
func FormatWeight(w float64) string {
	return krPrinter.Sprintf("%.0f", w) + " kg"
}

// PhoneDigits strips everything but ASCII digits.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneSuffix is the last four digits of a phone number, or 0000 when it
// has fewer.
func PhoneSuffix(phone string) string {
	d := PhoneDigits(phone)
	if len(d) < 4 {
		return "0000"
	}
	return d[len(d)-4:]
}
