package county

import "testing"

func TestReferenceList(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("expected %d counties, got %d", Count, len(all))
	}
	for i, c := range all {
		if c.ID != i+1 {
			t.Fatalf("expected code %d at position %d, got %d", i+1, i, c.ID)
		}
		if c.Name == "" {
			t.Fatalf("county %d has no name", c.ID)
		}
	}
	if Name(1) != "Mombasa" {
		t.Fatalf("expected county 1 to be Mombasa, got %s", Name(1))
	}
	if Name(47) != "Nairobi" {
		t.Fatalf("expected county 47 to be Nairobi, got %s", Name(47))
	}
}

func TestValid(t *testing.T) {
	for _, id := range []int{0, -1, 48, 100} {
		if Valid(id) {
			t.Fatalf("expected %d to be invalid", id)
		}
		if Name(id) != "" {
			t.Fatalf("expected empty name for %d", id)
		}
	}
	if !Valid(1) || !Valid(47) {
		t.Fatalf("expected bounds to be valid")
	}
}
