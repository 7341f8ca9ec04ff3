package playbook

import "testing"

func TestNextID_EmptyScopes(t *testing.T) {
	if got := NextID("str"); got != "str-00001" {
		t.Errorf("NextID = %s, want str-00001", got)
	}
	if got := NextID("str", "", "## STRATEGIES & INSIGHTS\n"); got != "str-00001" {
		t.Errorf("NextID = %s, want str-00001", got)
	}
}

func TestNextID_MaxAcrossScopes(t *testing.T) {
	scope1 := "[str-00001] helpful=0 harmful=0 :: a\n[str-00010] helpful=0 harmful=0 :: b\n"
	scope2 := "[str-00005] helpful=0 harmful=0 :: c\n"

	if got := NextID("str", scope1, scope2); got != "str-00011" {
		t.Errorf("NextID = %s, want str-00011", got)
	}
}

func TestNextID_IgnoresOtherPrefixes(t *testing.T) {
	raw := "[cal-00099] helpful=0 harmful=0 :: formula\n[str-00002] helpful=0 harmful=0 :: strategy\n"
	if got := NextID("str", raw); got != "str-00003" {
		t.Errorf("NextID = %s, want str-00003", got)
	}
}

// Allocation is a scan, not a counter: deleting the entry holding the
// maximum frees its number for reuse.
func TestNextID_ReusesAfterMaxRemoved(t *testing.T) {
	raw := "[str-00001] helpful=0 harmful=0 :: a\n[str-00007] helpful=0 harmful=0 :: b\n"
	if got := NextID("str", raw); got != "str-00008" {
		t.Fatalf("NextID = %s, want str-00008", got)
	}

	withoutMax := "[str-00001] helpful=0 harmful=0 :: a\n"
	if got := NextID("str", withoutMax); got != "str-00002" {
		t.Errorf("NextID after removing max = %s, want str-00002", got)
	}
}
