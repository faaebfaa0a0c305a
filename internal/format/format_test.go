package format

import "testing"

func TestSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2 * KB, "2.0 KB"},
		{int64(1.5 * MB), "1.5 MB"},
		{3 * GB, "3.00 GB"},
		{2 * TB, "2.00 TB"},
	}
	for _, c := range cases {
		if got := Size(c.in); got != c.want {
			t.Errorf("Size(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2048", 2048},
		{"500MB", 500 * MB},
		{"1.5 GB", int64(1.5 * GB)},
		{"10kb", 10 * KB},
		{"7 B", 7},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if err != nil {
			t.Errorf("ParseSize(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSize(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "abc", "-5MB"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) succeeded", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q", got)
	}
	if got := Truncate("a longer string", 8); got != "a longe…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestTruncatePath(t *testing.T) {
	path := "/Users/someone/Library/Caches/com.example.app/data"
	got := TruncatePath(path, 30)
	if len(got) > 31 {
		t.Errorf("TruncatePath too long: %q (%d)", got, len(got))
	}
	if got := TruncatePath("/tmp/x", 30); got != "/tmp/x" {
		t.Errorf("short path mangled: %q", got)
	}
}
