package models

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Leather Wallets", "leather-wallets"},
		{"Caps & Hats", "caps-hats"},
		{"  Summer   Collection  ", "summer-collection"},
		{"Premium!!!", "premium"},
		{"ALL CAPS", "all-caps"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
