package rowscan

import (
	"errors"
	"testing"
)

// TestFields tests splitting single lines into fields
func TestFields(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		sep     rune
		want    []string
		wantErr error
	}{
		{
			name: "simple fields",
			line: "a,b,c",
			sep:  ',',
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty line yields one empty field",
			line: "",
			sep:  ',',
			want: []string{""},
		},
		{
			name: "empty fields",
			line: "a,,c",
			sep:  ',',
			want: []string{"a", "", "c"},
		},
		{
			name: "trailing separator yields trailing empty field",
			line: "a,b,",
			sep:  ',',
			want: []string{"a", "b", ""},
		},
		{
			name: "semicolon separator",
			line: "a;b;c",
			sep:  ';',
			want: []string{"a", "b", "c"},
		},
		{
			name: "comma not special under semicolon separator",
			line: "a,b;c",
			sep:  ';',
			want: []string{"a,b", "c"},
		},
		{
			name: "quoted field",
			line: `"my text";a;1`,
			sep:  ';',
			want: []string{"my text", "a", "1"},
		},
		{
			name: "quoted field with embedded separator",
			line: `"a,b",c`,
			sep:  ',',
			want: []string{"a,b", "c"},
		},
		{
			name: "quoted field with escaped quotes",
			line: `"has ""quotes""",plain`,
			sep:  ',',
			want: []string{`has "quotes"`, "plain"},
		},
		{
			name: "quoted empty field",
			line: `"",b`,
			sep:  ',',
			want: []string{"", "b"},
		},
		{
			name: "tab separator",
			line: "a\tb\tc",
			sep:  '\t',
			want: []string{"a", "b", "c"},
		},
		{
			name:    "unclosed quote",
			line:    `"abc,def`,
			sep:     ',',
			wantErr: ErrUnclosedQuote,
		},
		{
			name:    "unclosed quote after escape",
			line:    `"has ""quotes`,
			sep:     ',',
			wantErr: ErrUnclosedQuote,
		},
		{
			name:    "bare quote in unquoted field",
			line:    `ab"c,d`,
			sep:     ',',
			wantErr: ErrBareQuote,
		},
		{
			name:    "garbage after closing quote",
			line:    `"ab"c,d`,
			sep:     ',',
			wantErr: nil, // checked separately below; any error accepted
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fields(tt.line, tt.sep)

			if tt.name == "garbage after closing quote" {
				if err == nil {
					t.Fatalf("Fields() expected error, got %v", got)
				}
				return
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fields() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fields() error = %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("Fields() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Fields()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestAppendField tests quoting on output
func TestAppendField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		sep   rune
		want  string
	}{
		{
			name:  "plain field unquoted",
			field: "abc",
			sep:   ',',
			want:  "abc",
		},
		{
			name:  "field with separator quoted",
			field: "a,b",
			sep:   ',',
			want:  `"a,b"`,
		},
		{
			name:  "comma not quoted under semicolon separator",
			field: "a,b",
			sep:   ';',
			want:  "a,b",
		},
		{
			name:  "field with quote escaped",
			field: `has "quotes"`,
			sep:   ',',
			want:  `"has ""quotes"""`,
		},
		{
			name:  "field with newline quoted",
			field: "line1\nline2",
			sep:   ',',
			want:  "\"line1\nline2\"",
		},
		{
			name:  "field with space quoted",
			field: "my text",
			sep:   ';',
			want:  `"my text"`,
		},
		{
			name:  "empty field",
			field: "",
			sep:   ',',
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendField(nil, tt.field, tt.sep))
			if got != tt.want {
				t.Errorf("AppendField(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

// TestFieldsRoundTrip verifies that quoted output splits back to the
// original fields.
func TestFieldsRoundTrip(t *testing.T) {
	fields := []string{"plain", "with,comma", `with "quotes"`, "with\nnewline", "with space", ""}

	var line []byte
	for i, f := range fields {
		if i > 0 {
			line = append(line, ',')
		}
		line = AppendField(line, f, ',')
	}

	got, err := Fields(string(line), ',')
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if len(got) != len(fields) {
		t.Fatalf("round trip: got %d fields, want %d", len(got), len(fields))
	}
	for i := range got {
		if got[i] != fields[i] {
			t.Errorf("round trip field %d = %q, want %q", i, got[i], fields[i])
		}
	}
}
