package entity

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// StatusFilterAll matches every status
const StatusFilterAll = "ALL"

// SortOrder is a per-view policy for ordering by scheduled time
type SortOrder string

const (
	SortOldestFirst SortOrder = "asc"
	SortNewestFirst SortOrder = "desc"
)

// AppointmentFilter is the domain-level filter for appointment lists.
// Used by usecases to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	Query  string    // Patient name (case-insensitive) or ID substring
	Status string    // ALL or one concrete status
	Sort   SortOrder // Defaults to oldest first
}

func (f AppointmentFilter) normalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

func (f AppointmentFilter) normalizedStatus() string {
	s := strings.ToUpper(strings.TrimSpace(f.Status))
	if s == "" {
		return StatusFilterAll
	}
	return s
}

// Matches applies the text and status predicates (logical AND).
func (f AppointmentFilter) Matches(a *Appointment) bool {
	return f.matchesText(a) && f.matchesStatus(a)
}

func (f AppointmentFilter) matchesText(a *Appointment) bool {
	q := f.normalizedQuery()
	if q == "" {
		return true
	}
	for _, name := range searchableNames(a) {
		if strings.Contains(strings.ToLower(name), q) {
			return true
		}
	}
	return strings.Contains(strconv.FormatInt(a.ID, 10), q)
}

// searchableNames are the real names on a record. Display fallbacks such as
// SelfPatientName never match.
func searchableNames(a *Appointment) []string {
	names := make([]string, 0, 3)
	if a.PatientName != nil && strings.TrimSpace(*a.PatientName) != "" {
		names = append(names, *a.PatientName)
	}
	if a.Patient != nil {
		if a.Patient.FullName != "" {
			names = append(names, a.Patient.FullName)
		}
		if a.Patient.Username != "" {
			names = append(names, a.Patient.Username)
		}
	}
	return names
}

func (f AppointmentFilter) matchesStatus(a *Appointment) bool {
	s := f.normalizedStatus()
	return s == StatusFilterAll || string(a.Status) == s
}

// Apply filters then sorts, returning a new slice.
func (f AppointmentFilter) Apply(appointments []Appointment) []Appointment {
	out := make([]Appointment, 0, len(appointments))
	for i := range appointments {
		if f.Matches(&appointments[i]) {
			out = append(out, appointments[i])
		}
	}
	SortAppointments(out, f.Sort)
	return out
}

// SortAppointments orders by scheduled time. Unparseable times sort before
// every parsed time; ties fall back to ID, then to the input order.
func SortAppointments(appointments []Appointment, order SortOrder) {
	type sortEntry struct {
		appointment Appointment
		at          time.Time
		parsed      bool
	}
	entries := make([]sortEntry, len(appointments))
	for i := range appointments {
		at, ok := ParseAppointmentTime(appointments[i].AppointmentTime, time.UTC)
		entries[i] = sortEntry{appointment: appointments[i], at: at, parsed: ok}
	}

	earlier := func(a, b sortEntry) bool {
		switch {
		case a.parsed != b.parsed:
			return !a.parsed
		case a.parsed && !a.at.Equal(b.at):
			return a.at.Before(b.at)
		default:
			return false
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if earlier(a, b) || earlier(b, a) {
			if order == SortNewestFirst {
				return earlier(b, a)
			}
			return earlier(a, b)
		}
		return a.appointment.ID < b.appointment.ID
	})

	for i := range entries {
		appointments[i] = entries[i].appointment
	}
}

// Page is one window of a list
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the items of a 1-indexed page, clamping page into range.
func Paginate(appointments []Appointment, page, size int) ([]Appointment, Page) {
	if size <= 0 {
		size = 10
	}
	total := len(appointments)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return appointments[start:end], Page{
		Number:     page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ListState remembers the last filter of a paginated view so a filter
// change can send the view back to page 1.
type ListState struct {
	Query  string `json:"query"`
	Status string `json:"status"`
	Page   int    `json:"page"`
}

// Apply returns the page to show for the requested filter and page.
// A changed query or status resets to page 1.
func (s *ListState) Apply(f AppointmentFilter, requestedPage int) int {
	q, st := f.normalizedQuery(), f.normalizedStatus()
	if s.Status == "" {
		s.Status = StatusFilterAll
	}
	if q != s.Query || st != s.Status {
		s.Query, s.Status, s.Page = q, st, 1
		return 1
	}
	if requestedPage < 1 {
		requestedPage = 1
	}
	s.Page = requestedPage
	return requestedPage
}
