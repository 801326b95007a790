package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestOptionDefinition(t *testing.T) {
	options := NewParsedOptions()
	options.DefineOption("test-string", "s", OptionTypeString, "Test string option")
	options.DefineOption("test-bool", "b", OptionTypeBool, "Test bool option")
	options.DefineOption("test-int", "i", OptionTypeInt, "Test int option")

	if options.IsSet("test-string") || options.GetString("test-string") != "" {
		t.Errorf("Expected no value before parsing, got %q", options.GetString("test-string"))
	}

	args := []string{"--test-string=value", "--test-bool", "--test-int=42"}
	if err := options.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if options.GetString("test-string") != "value" {
		t.Errorf("Expected string 'value', got %s", options.GetString("test-string"))
	}
	if !options.GetBool("test-bool") {
		t.Errorf("Expected bool true, got %v", options.GetBool("test-bool"))
	}
	if options.GetString("test-int") != "42" || !options.IsSet("test-int") {
		t.Errorf("Expected int 42, got %q", options.GetString("test-int"))
	}
}

func TestShortOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		verbose string
		workers string
		rest    []string
	}{
		{"counted", []string{"-vvv", "/d"}, "3", "", []string{"/d"}},
		{"int takes a number", []string{"-j", "8", "/d"}, "", "8", []string{"/d"}},
		{"bundled", []string{"-qv", "/d"}, "1", "", []string{"/d"}},
		{"lone int before a path", []string{"-j", "/d"}, "", "1", []string{"/d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := newOptions()
			if err := options.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := options.GetString("verbose"); got != tt.verbose {
				t.Errorf("verbose = %q, expected %q", got, tt.verbose)
			}
			if got := options.GetString("workers"); got != tt.workers {
				t.Errorf("workers = %q, expected %q", got, tt.workers)
			}
			if got := options.GetArgs(); !reflect.DeepEqual(got, tt.rest) {
				t.Errorf("args = %v, expected %v", got, tt.rest)
			}
		})
	}
}

func TestListOptions(t *testing.T) {
	options := NewParsedOptions()
	options.DefineOption("directories", "d", OptionTypeList, "Directories")
	options.DefineOption("override", "o", OptionTypeList, "Overrides")
	options.DefineOption("verbose", "v", OptionTypeInt, "Verbose level")

	args := []string{"-d", "/a", "--directories=/b", "--directories", "/c", "-o", "level:2", "/positional", "-v", "/other"}
	if err := options.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := options.GetList("directories"); !reflect.DeepEqual(got, []string{"/a", "/b", "/c"}) {
		t.Errorf("Unexpected directories %v", got)
	}
	if got := options.GetList("override"); !reflect.DeepEqual(got, []string{"level:2"}) {
		t.Errorf("Unexpected overrides %v", got)
	}
	if options.GetString("verbose") != "1" {
		t.Errorf("A lone -v before a path should mean level 1, got %q", options.GetString("verbose"))
	}
	if got := options.GetArgs(); !reflect.DeepEqual(got, []string{"/positional", "/other"}) {
		t.Errorf("Unexpected positional args %v", got)
	}
}

func TestDoubleDashEndsOptions(t *testing.T) {
	options := NewParsedOptions()
	options.DefineOption("quiet", "q", OptionTypeBool, "Quiet mode")

	if err := options.Parse([]string{"-q", "--", "-weird-dir", "--also"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := options.GetArgs(); !reflect.DeepEqual(got, []string{"-weird-dir", "--also"}) {
		t.Errorf("Unexpected args %v", got)
	}
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown long", []string{"--nope"}},
		{"unknown short", []string{"-x"}},
		{"string without value", []string{"--format"}},
		{"bad int", []string{"--workers=many"}},
		{"bool with value", []string{"--follow=true"}},
		{"list without value", []string{"-d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := newOptions().Parse(tt.args); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestShowUsage(t *testing.T) {
	var buf bytes.Buffer
	newOptions().ShowUsage(&buf)
	out := buf.String()
	for _, want := range []string{"--directories VALUE", "-o, --override VALUE", "--format=VALUE", "-j, --workers=N", "--follow"} {
		if !strings.Contains(out, want) {
			t.Errorf("Usage missing %q:\n%s", want, out)
		}
	}
}
