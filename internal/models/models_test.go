// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "testing"

func TestValidRatingValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"minimum", 1.0, true},
		{"maximum", 5.0, true},
		{"half step", 3.5, true},
		{"whole step", 4.0, true},
		{"below range", 0.5, false},
		{"above range", 5.5, false},
		{"off step", 3.7, false},
		{"quarter step", 2.25, false},
		{"zero", 0, false},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRatingValue(tt.value); got != tt.want {
				t.Errorf("ValidRatingValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestTargetTypeValid(t *testing.T) {
	for _, valid := range []TargetType{TargetRating, TargetReview, TargetList, TargetComment} {
		if !valid.Valid() {
			t.Errorf("%q should be valid", valid)
		}
	}
	for _, invalid := range []TargetType{"", "movie", "user", "Rating"} {
		if invalid.Valid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}

func TestUserRef(t *testing.T) {
	u := &User{ID: 7, Username: "ada", FullName: "Ada L.", PasswordHash: "secret"}
	ref := u.Ref()
	if ref.ID != 7 || ref.Username != "ada" || ref.FullName != "Ada L." {
		t.Errorf("Ref() = %+v", ref)
	}
}
