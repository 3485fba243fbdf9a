package main

import "testing"

func TestDisplayTitle(t *testing.T) {
	cases := map[string]string{
		"":              "-",
		"bgm":           "Bgm",
		"sasuke_uchiha": "Sasuke Uchiha",
		"calm":          "Calm",
	}
	for input, want := range cases {
		if got := displayTitle(input); got != want {
			t.Fatalf("displayTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.0 KiB",
		1572864: "1.5 MiB",
	}
	for input, want := range cases {
		if got := formatBytes(input); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", input, got, want)
		}
	}
}
