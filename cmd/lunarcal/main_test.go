package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// runCLI executes the command tree with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// 20:00 UTC on Feb 9 is Tết (Feb 10) in Vietnam.
	now := func() time.Time { return time.Date(2024, 2, 9, 20, 0, 0, 0, time.UTC) }

	root := newRootCmd(now, io.Discard)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestConvert(t *testing.T) {
	os.Unsetenv("TIMEZONE_OFFSET")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "explicit date",
			args: []string{"convert", "2024-09-17"},
			want: []string{"15/8/2024", "Tết Trung Thu", "Giáp Thìn"},
		},
		{
			name: "today in Vietnam",
			args: []string{"convert"},
			want: []string{"2024-02-10", "1/1/2024", "Tết Nguyên Đán"},
		},
		{
			name: "today in UTC",
			args: []string{"convert", "--tz", "0"},
			want: []string{"2024-02-09"},
		},
		{
			name: "leap month",
			args: []string{"convert", "2023-03-22"},
			want: []string{"1/2/2023 (leap)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestConvert_JSON(t *testing.T) {
	out, err := runCLI(t, "convert", "2024-02-10", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got struct {
		Lunar struct {
			Day   int `json:"day"`
			Month int `json:"month"`
			Year  int `json:"year"`
		} `json:"lunar"`
		Zodiac string `json:"zodiac"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Lunar.Day != 1 || got.Lunar.Month != 1 || got.Lunar.Year != 2024 {
		t.Errorf("lunar = %+v, want 1/1/2024", got.Lunar)
	}
	if got.Zodiac != "Thìn" {
		t.Errorf("zodiac = %q, want Thìn", got.Zodiac)
	}
}

func TestTimeZoneFromEnv(t *testing.T) {
	t.Setenv("TIMEZONE_OFFSET", "0")

	out, err := runCLI(t, "convert", "2023-03-21")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "1/2/2023 (leap)") {
		t.Errorf("expected UTC conversion from env, got:\n%s", out)
	}

	// The flag wins over the environment.
	out, err = runCLI(t, "convert", "2023-03-21", "--tz", "7")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "30/2/2023") {
		t.Errorf("expected UTC+7 conversion from flag, got:\n%s", out)
	}
}

func TestTimeZoneFromDotEnv(t *testing.T) {
	// Restored on cleanup; godotenv only fills variables that are unset.
	t.Setenv("TIMEZONE_OFFSET", "")
	os.Unsetenv("TIMEZONE_OFFSET")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMEZONE_OFFSET=0\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	out, err := runCLI(t, "convert", "2023-03-21")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "1/2/2023 (leap)") {
		t.Errorf("expected UTC conversion from .env, got:\n%s", out)
	}
}

func TestSolar(t *testing.T) {
	os.Unsetenv("TIMEZONE_OFFSET")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"solar", "1", "1", "2024"}, "2024-02-10"},
		{[]string{"solar", "1", "2", "2023", "--leap"}, "2023-03-22"},
		{[]string{"solar", "15", "8", "2024"}, "2024-09-17"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	os.Unsetenv("TIMEZONE_OFFSET")

	tests := []struct {
		name string
		args []string
	}{
		{"bad date", []string{"convert", "2023-04-31"}},
		{"tz out of range", []string{"convert", "--tz", "15"}},
		{"tz NaN", []string{"zodiac", "2023", "--tz", "NaN"}},
		{"not a leap month", []string{"solar", "1", "3", "2024", "--leap"}},
		{"day past month end", []string{"solar", "30", "1", "2023"}},
		{"month out of range", []string{"solar", "1", "13", "2024"}},
		{"non-numeric year", []string{"zodiac", "rồng"}},
		{"bad month format", []string{"month", "2024/02"}},
		{"missing args", []string{"solar", "1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	out, err := runCLI(t, "month", "2024-02")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.Contains(lines[0], "Quý Mão") {
		t.Errorf("header = %q, want lunar year Quý Mão", lines[0])
	}
	if !strings.HasPrefix(lines[1], "CN") {
		t.Errorf("weekday row = %q", lines[1])
	}
	// Feb 1 2024 is a Thursday: four empty cells first.
	if !strings.HasPrefix(lines[2], strings.Repeat(" ", 40)+" 1 22") {
		t.Errorf("first week = %q", lines[2])
	}
	if !strings.Contains(out, "10 1/1") {
		t.Errorf("missing Tết cell:\n%s", out)
	}
}

func TestZodiac(t *testing.T) {
	out, err := runCLI(t, "zodiac", "2023")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Quý Mão") || !strings.Contains(out, "Tháng nhuận: 2") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "zodiac", "2024", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var got zodiacResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Animal != "Thìn" || got.LeapMonth != 0 {
		t.Errorf("got %+v", got)
	}
}
