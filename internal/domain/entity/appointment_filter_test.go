package entity

import (
	"fmt"
	"testing"
)

func strPtr(s string) *string { return &s }

func sampleAppointments() []Appointment {
	return []Appointment{
		{ID: 42, PatientName: strPtr("Ravi Kumar"), Status: AppointmentStatusPending, AppointmentTime: "2025-03-02T10:00:00"},
		{ID: 142, PatientName: strPtr("Meera Joshi"), Status: AppointmentStatusConfirmed, AppointmentTime: "2025-03-01T08:00:00"},
		{ID: 7, PatientName: strPtr("ravindra"), Status: AppointmentStatusCompleted, AppointmentTime: "not a date"},
		{ID: 9, Status: AppointmentStatusCancelled, AppointmentTime: "2025-02-28T18:00:00", Patient: &User{FullName: "Sunil Rao"}},
	}
}

func ids(list []Appointment) []int64 {
	out := make([]int64, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestAppointmentFilter_IDSubstring(t *testing.T) {
	got := AppointmentFilter{Query: "42"}.Apply(sampleAppointments())
	if fmt.Sprint(ids(got)) != "[142 42]" {
		t.Errorf("expected both 42 and 142, got %v", ids(got))
	}
}

func TestAppointmentFilter_NameCaseInsensitive(t *testing.T) {
	got := AppointmentFilter{Query: "RAVI"}.Apply(sampleAppointments())
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", ids(got))
	}

	profile := AppointmentFilter{Query: "sunil"}.Apply(sampleAppointments())
	if len(profile) != 1 || profile[0].ID != 9 {
		t.Errorf("expected profile-name match, got %v", ids(profile))
	}
}

func TestAppointmentFilter_StatusOnlyYieldsThatStatus(t *testing.T) {
	for _, s := range []AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled} {
		got := AppointmentFilter{Status: string(s)}.Apply(sampleAppointments())
		if len(got) != 1 {
			t.Errorf("%s: expected 1 match, got %d", s, len(got))
		}
		for _, a := range got {
			if a.Status != s {
				t.Errorf("%s: unexpected status %s", s, a.Status)
			}
		}
	}

	all := AppointmentFilter{Status: StatusFilterAll}.Apply(sampleAppointments())
	if len(all) != len(sampleAppointments()) {
		t.Errorf("expected ALL to keep everything, got %d", len(all))
	}
}

func TestAppointmentFilter_CombinesWithAnd(t *testing.T) {
	got := AppointmentFilter{Query: "ravi", Status: "completed"}.Apply(sampleAppointments())
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("expected only 7, got %v", ids(got))
	}
}

func TestSortAppointments_UnparseableFirst(t *testing.T) {
	asc := AppointmentFilter{Sort: SortOldestFirst}.Apply(sampleAppointments())
	if fmt.Sprint(ids(asc)) != "[7 9 142 42]" {
		t.Errorf("unexpected ascending order %v", ids(asc))
	}

	desc := AppointmentFilter{Sort: SortNewestFirst}.Apply(sampleAppointments())
	if fmt.Sprint(ids(desc)) != "[42 142 9 7]" {
		t.Errorf("unexpected descending order %v", ids(desc))
	}
}

func TestSortAppointments_TiesByID(t *testing.T) {
	list := []Appointment{
		{ID: 3, AppointmentTime: ""},
		{ID: 1, AppointmentTime: "garbage"},
		{ID: 2, AppointmentTime: "2025-01-01T00:00:00"},
	}
	SortAppointments(list, SortOldestFirst)
	if fmt.Sprint(ids(list)) != "[1 3 2]" {
		t.Errorf("unexpected order %v", ids(list))
	}
}

func TestPaginate(t *testing.T) {
	list := make([]Appointment, 23)
	for i := range list {
		list[i].ID = int64(i + 1)
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantLen   int
		wantFirst int64
	}{
		{"first page", 1, 1, 10, 1},
		{"last partial page", 3, 3, 3, 21},
		{"beyond range clamps", 9, 3, 3, 21},
		{"zero clamps to one", 0, 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, page := Paginate(list, tt.page, 10)
			if page.Number != tt.wantPage || len(items) != tt.wantLen || items[0].ID != tt.wantFirst {
				t.Errorf("got page=%d len=%d first=%d", page.Number, len(items), items[0].ID)
			}
			if page.TotalPages != 3 || page.Total != 23 {
				t.Errorf("unexpected meta %+v", page)
			}
		})
	}

	empty, page := Paginate(nil, 2, 10)
	if len(empty) != 0 || page.Number != 1 || page.TotalPages != 1 {
		t.Errorf("unexpected empty pagination %+v", page)
	}
}

func TestListState_ResetsPageOnFilterChange(t *testing.T) {
	var state ListState

	if got := state.Apply(AppointmentFilter{}, 2); got != 2 {
		t.Errorf("expected requested page on first visit, got %d", got)
	}
	if got := state.Apply(AppointmentFilter{}, 3); got != 3 {
		t.Errorf("expected page 3 with unchanged filter, got %d", got)
	}
	if got := state.Apply(AppointmentFilter{Query: "ravi"}, 3); got != 1 {
		t.Errorf("expected reset on query change, got %d", got)
	}
	if got := state.Apply(AppointmentFilter{Query: "ravi", Status: "PENDING"}, 2); got != 1 {
		t.Errorf("expected reset on status change, got %d", got)
	}
	if got := state.Apply(AppointmentFilter{Query: " Ravi ", Status: "pending"}, 2); got != 2 {
		t.Errorf("expected normalized filter to count as unchanged, got %d", got)
	}
}

func TestSortAppointments_SharedIDsAndDistantYears(t *testing.T) {
	list := []Appointment{
		{ID: 0, PatientName: strPtr("late"), AppointmentTime: "2300-01-01T00:00:00"},
		{ID: 0, PatientName: strPtr("mid"), AppointmentTime: "2025-06-01T09:00:00"},
		{ID: 0, PatientName: strPtr("early"), AppointmentTime: "0001-01-01T00:00:01"},
		{ID: 0, PatientName: strPtr("unknown"), AppointmentTime: "soon"},
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortOldestFirst, "[unknown early mid late]"},
		{SortNewestFirst, "[late mid early unknown]"},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := append([]Appointment(nil), list...)
			SortAppointments(got, tt.order)
			names := make([]string, len(got))
			for i, a := range got {
				names[i] = *a.PatientName
			}
			if fmt.Sprint(names) != tt.want {
				t.Errorf("got %v, want %s", names, tt.want)
			}
		})
	}
}

func TestAppointmentFilter_FallbackNameIsNotSearchable(t *testing.T) {
	list := []Appointment{
		{ID: 1, AppointmentTime: "2025-06-01T09:00:00"},
		{ID: 2, Patient: &User{Username: "selina"}, AppointmentTime: "2025-06-02T09:00:00"},
		{ID: 3, PatientName: strPtr("Anselm"), AppointmentTime: "2025-06-03T09:00:00"},
	}

	got := AppointmentFilter{Query: "sel"}.Apply(list)
	if fmt.Sprint(ids(got)) != "[2 3]" {
		t.Errorf("expected only real names to match, got %v", ids(got))
	}
}
