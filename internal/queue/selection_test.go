package queue

import (
	"slices"
	"testing"
)

func selectionFixture() *Controller {
	return NewController([]Item{
		item(45, "forty five", "Approved:0:45"),
		item(7, "seven", "Approved:-1:7"),
		item(12, "twelve", "Pending:0:12"),
		item(100, "hundred", "Approved:-1:100"),
	}, fixedNow)
}

func TestSelectAllThenUncheckOne(t *testing.T) {
	c := selectionFixture()
	c.SelectAll()
	c.SetChecked(12, false)

	s := c.Summary()
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if !slices.Equal(s.Numbers, []int{7, 45, 100}) {
		t.Errorf("Numbers = %v, want [7 45 100]", s.Numbers)
	}
	want := " - #7 (seven)\n - #45 (forty five)\n - #100 (hundred)"
	if s.Text != want {
		t.Errorf("Text = %q, want %q", s.Text, want)
	}
}

func TestSelectAllOnlyTouchesVisible(t *testing.T) {
	c := selectionFixture()
	c.SetChecked(12, true)
	c.Filter("^s")

	c.SelectNone()
	if s := c.Summary(); !slices.Equal(s.Numbers, []int{12}) {
		t.Errorf("after SelectNone on visible = %v, want [12]", s.Numbers)
	}

	s := c.SelectAll()
	if !slices.Equal(s.Numbers, []int{7, 12}) {
		t.Errorf("after SelectAll on visible = %v, want [7 12]", s.Numbers)
	}
}

func TestSelectByNumbers(t *testing.T) {
	c := selectionFixture()
	c.SetChecked(100, true)

	s := c.SelectByNumbers("12, 45 and 7")
	if !slices.Equal(s.Numbers, []int{7, 12, 45}) {
		t.Errorf("Numbers = %v, want [7 12 45]", s.Numbers)
	}
	if it, _ := c.Item(100); it.Checked {
		t.Error("expected #100 to be unchecked")
	}
}

func TestSelectByNumbersIgnoresUnknown(t *testing.T) {
	c := selectionFixture()
	s := c.SelectByNumbers(" - #7 (seven)\n - #9999 (gone)")
	if !slices.Equal(s.Numbers, []int{7}) {
		t.Errorf("Numbers = %v, want [7]", s.Numbers)
	}
}

func TestSelectApprovedRollups(t *testing.T) {
	c := selectionFixture()
	c.SetChecked(45, true)

	s := c.SelectApprovedRollups()
	if !slices.Equal(s.Numbers, []int{7, 100}) {
		t.Errorf("Numbers = %v, want [7 100]", s.Numbers)
	}
}

func TestToggleChecked(t *testing.T) {
	c := selectionFixture()
	if !c.ToggleChecked(7) {
		t.Fatal("ToggleChecked(7) = false, want true")
	}
	if it, _ := c.Item(7); !it.Checked {
		t.Error("expected #7 checked after first toggle")
	}
	c.ToggleChecked(7)
	if it, _ := c.Item(7); it.Checked {
		t.Error("expected #7 unchecked after second toggle")
	}
	if c.ToggleChecked(8) {
		t.Error("ToggleChecked(8) = true for a missing item")
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"12, 45 and 7", []int{12, 45, 7}},
		{"#1#2", []int{1, 2}},
		{"none here", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseNumbers(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ParseNumbers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
