// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filename

import (
	"reflect"
	"testing"

	"github.com/pdiddy/pdforg/pkg/types"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name string
		stem string
		want types.PartialRecord
	}{
		{
			"paren year author title",
			"(2009) Smith - Deep Learning Basics",
			types.PartialRecord{Year: 2009, Authors: []string{"Smith"}, Title: "Deep Learning Basics"},
		},
		{
			"year author title dashes",
			"2014 - Goodfellow - Generative Adversarial Networks",
			types.PartialRecord{Year: 2014, Authors: []string{"Goodfellow"}, Title: "Generative Adversarial Networks"},
		},
		{
			"author title paren year",
			"Smith - Deep Learning Basics (2009)",
			types.PartialRecord{Year: 2009, Authors: []string{"Smith"}, Title: "Deep Learning Basics"},
		},
		{
			"author title bare trailing year",
			"Smith - Deep Learning Basics 2009",
			types.PartialRecord{Year: 2009, Authors: []string{"Smith"}, Title: "Deep Learning Basics"},
		},
		{
			"underscore author title year",
			"Smith_Attention Is All You Need_2017",
			types.PartialRecord{Year: 2017, Authors: []string{"Smith"}, Title: "Attention Is All You Need"},
		},
		{
			"underscore words with trailing year stay a title",
			"Another_Paper_2015",
			types.PartialRecord{Year: 2015, Title: "Another Paper"},
		},
		{
			"leading year",
			"2015 Another Paper",
			types.PartialRecord{Year: 2015, Title: "Another Paper"},
		},
		{
			"bracketed leading year",
			"[2015] Another Paper",
			types.PartialRecord{Year: 2015, Title: "Another Paper"},
		},
		{
			"trailing paren year without author",
			"Another Paper (2015)",
			types.PartialRecord{Year: 2015, Title: "Another Paper"},
		},
		{
			"author title without year",
			"Smith - Notes on Perception",
			types.PartialRecord{Authors: []string{"Smith"}, Title: "Notes on Perception"},
		},
		{
			"year embedded mid-name",
			"Deep Learning Review 2021 final",
			types.PartialRecord{Year: 2021, Title: "Deep Learning Review final"},
		},
		{
			"earlier year beats a trailing year",
			"Study 1999 of things 2015",
			types.PartialRecord{Year: 1999, Title: "Study of things 2015"},
		},
		{
			"multiple authors ampersand",
			"Smith & Jones - Neural Networks 2020",
			types.PartialRecord{Year: 2020, Authors: []string{"Smith", "Jones"}, Title: "Neural Networks"},
		},
		{
			"multiple authors and",
			"(1986) Rumelhart and Hinton - Learning Representations",
			types.PartialRecord{Year: 1986, Authors: []string{"Rumelhart", "Hinton"}, Title: "Learning Representations"},
		},
		{
			"unparsable scan name",
			"scan0001",
			types.PartialRecord{},
		},
		{
			"implausible year is not a year",
			"Report 9999",
			types.PartialRecord{},
		},
		{
			"empty stem",
			"",
			types.PartialRecord{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.stem)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.stem, got, tt.want)
			}
		})
	}
}

// The same filename always yields the same partial record.
func TestParseDeterminism(t *testing.T) {
	stems := []string{
		"(2009) Smith - Deep Learning Basics",
		"Another_Paper_2015",
		"scan0001",
	}
	for _, stem := range stems {
		first := Parse(stem)
		for i := 0; i < 5; i++ {
			if got := Parse(stem); !reflect.DeepEqual(got, first) {
				t.Errorf("Parse(%q) not deterministic: %+v vs %+v", stem, got, first)
			}
		}
	}
}

// Leftmost plausible year wins when several 4-digit tokens appear.
func TestParseLeftmostYearWins(t *testing.T) {
	got := Parse("1999 retrospective on 2015 methods")
	if got.Year != 1999 {
		t.Errorf("year = %d, want 1999", got.Year)
	}
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Smith", []string{"Smith"}},
		{"Smith & Jones", []string{"Smith", "Jones"}},
		{"Smith, Jones, Brown", []string{"Smith", "Jones", "Brown"}},
		{"Smith and Jones", []string{"Smith", "Jones"}},
		{"Alexander", []string{"Alexander"}}, // "and" inside a name is not a separator
	}
	for _, tt := range tests {
		if got := SplitAuthors(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAuthors(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRulesOrderStable(t *testing.T) {
	names := Rules()
	if len(names) == 0 {
		t.Fatal("no rules registered")
	}
	if names[0] != "paren-year-author-title" {
		t.Errorf("first rule = %q, want paren-year-author-title", names[0])
	}
}
