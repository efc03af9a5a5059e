package version

import "testing"

func TestGet(t *testing.T) {
	Version, Commit, Date = "1.2.0", "abc123", "2026-10-01"
	t.Cleanup(func() { Version, Commit, Date = "dev", "unknown", "unknown" })

	info := Get()
	if info.Version != "1.2.0" || info.Commit != "abc123" || info.Date != "2026-10-01" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if got := info.String(); got != "1.2.0 (abc123, 2026-10-01)" {
		t.Errorf("String() = %q", got)
	}
}
