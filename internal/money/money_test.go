package money

import (
	"encoding/json"
	"testing"
)

func TestArithmeticIsExact(t *testing.T) {
	a := MustParse("0.10")
	b := MustParse("0.20")

	sum := a.Add(b)
	if !sum.Equal(MustParse("0.30")) {
		t.Fatalf("expected 0.30, got %s", sum)
	}

	diff := MustParse("1000.00").Sub(MustParse("999.99"))
	if !diff.Equal(MustParse("0.01")) {
		t.Fatalf("expected 0.01, got %s", diff)
	}
}

func TestComparisons(t *testing.T) {
	if !MustParse("999.99").LessThan(MustParse("1000.00")) {
		t.Fatal("999.99 should be less than 1000.00")
	}
	if MustParse("1000.00").LessThan(MustParse("1000.00")) {
		t.Fatal("1000.00 is not less than itself")
	}
	if !MustParse("100.00").Sub(MustParse("150.00")).IsNegative() {
		t.Fatal("100.00 - 150.00 should be negative")
	}
	if Zero.IsNegative() || Zero.IsPositive() {
		t.Fatal("zero is neither negative nor positive")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(MustParse("1500.5"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"1500.50"` {
		t.Fatalf("unexpected JSON: %s", out)
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"42.07"`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Equal(MustParse("42.07")) {
		t.Fatalf("expected 42.07, got %s", a)
	}
}
