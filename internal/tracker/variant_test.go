package tracker

import (
	"testing"

	"github.com/theirongolddev/p200/internal/feed"
)

func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{"": Cumulative, "cumulative": Cumulative, " Weekly ": Weekly}
	for in, want := range cases {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Errorf("ParseVariant(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseVariant("daily"); err == nil {
		t.Fatal("ParseVariant(daily) should fail")
	}
}

func TestVariantRules(t *testing.T) {
	if Cumulative.Mode() != feed.Strict || Weekly.Mode() != feed.Lenient {
		t.Fatal("unexpected parse modes")
	}
	if Cumulative.Policy() != TargetMinusTotal || Weekly.Policy() != FeedChange {
		t.Fatal("unexpected remaining policies")
	}
	if !Cumulative.Selectable() || Weekly.Selectable() {
		t.Fatal("only the cumulative variant is selectable")
	}
}

func TestRemainingPolicyDescribe(t *testing.T) {
	if got := TargetMinusTotal.Describe(); got != "target minus total given" {
		t.Errorf("TargetMinusTotal.Describe() = %q", got)
	}
	if got := FeedChange.Describe(); got != "as reported in the sheet" {
		t.Errorf("FeedChange.Describe() = %q", got)
	}
}
