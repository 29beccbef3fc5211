package model

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		profile AdminProfile
		want    string
	}{
		{"account name wins", AdminProfile{Name: "Jana Kovac", Fname: "Jana", Lname: "Kovac"}, "Jana Kovac"},
		{"falls back to first and last", AdminProfile{Fname: "Jana", Lname: "Kovac"}, "Jana Kovac"},
		{"first name only", AdminProfile{Fname: "Jana"}, "Jana"},
		{"placeholder when empty", AdminProfile{}, "Admin User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name    string
		profile AdminProfile
		want    string
	}{
		{"first and last", AdminProfile{Fname: "jana", Lname: "kovac"}, "JK"},
		{"account name fallback", AdminProfile{Name: "maria"}, "M"},
		{"last name alone is not enough", AdminProfile{Lname: "kovac", Name: "maria"}, "M"},
		{"placeholder when empty", AdminProfile{}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Initials(); got != tt.want {
				t.Errorf("Initials() = %q, want %q", got, tt.want)
			}
		})
	}
}
