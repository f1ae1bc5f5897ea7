// Package mcc is the Merchant Category Code directory: a static, read-only
// table of 4-digit codes and descriptions.
package mcc

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one MCC directory row.
type Entry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var directory = []Entry{
	{"4121", "Taxicabs and Limousines"},
	{"5311", "Department Stores"},
	{"5411", "Grocery Stores and Supermarkets"},
	{"5499", "Miscellaneous Food Stores"},
	{"5541", "Service Stations"},
	{"5812", "Eating Places and Restaurants"},
	{"5814", "Fast Food Restaurants"},
	{"5912", "Drug Stores and Pharmacies"},
	{"5941", "Sporting Goods Stores"},
	{"5942", "Book Stores"},
	{"5944", "Jewelry Stores"},
	{"5945", "Hobby, Toy, and Game Shops"},
	{"5999", "Miscellaneous Retail Stores"},
	{"7011", "Hotels, Motels, Resorts"},
	{"7230", "Barber and Beauty Shops"},
	{"7298", "Health and Beauty Spas"},
	{"7372", "Computer Programming Services"},
	{"7512", "Automobile Rental Agency"},
	{"7523", "Parking Lots and Garages"},
	{"7832", "Motion Picture Theaters"},
	{"7922", "Theatrical Producers and Ticket Agencies"},
	{"7992", "Golf Courses - Public"},
}

var mccPattern = regexp.MustCompile(`^\d{4}$`)

// All returns every directory entry.
func All() []Entry {
	out := make([]Entry, len(directory))
	copy(out, directory)
	return out
}

// Lookup finds an entry by exact code.
func Lookup(code string) (Entry, bool) {
	for _, e := range directory {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns entries whose code or description contains the query,
// case-insensitively.
func Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Entry
	for _, e := range directory {
		if strings.Contains(e.Code, q) || strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that a code is a well-formed 4-digit MCC.
func Validate(code string) error {
	if !mccPattern.MatchString(strings.TrimSpace(code)) {
		return fmt.Errorf("MCC must be a 4-digit code, got %q", code)
	}
	return nil
}
