package picshelf_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/picshelf/picshelf"
)

func TestSanitizeFilename(t *testing.T) {
	// Create a name with invalid UTF-8 (without embedding raw invalid bytes in source)
	invalidUTF8 := string([]byte{'a', 0xff, 'b'})

	tt := []struct {
		Name    string
		Input   string
		Want    string
		WantErr bool
	}{
		// Plain names pass through
		{Name: "simple name", Input: "photo.png", Want: "photo.png"},
		{Name: "name with dashes and underscores", Input: "my-photo_2.jpg", Want: "my-photo_2.jpg"},
		{Name: "unicode name", Input: "привет.png", Want: "привет.png"},

		// Whitespace collapses to a single underscore
		{Name: "single space", Input: "my photo.png", Want: "my_photo.png"},
		{Name: "whitespace run", Input: "my   photo.png", Want: "my_photo.png"},
		{Name: "tab and space", Input: "my \tphoto.png", Want: "my_photo.png"},

		// Directory components are stripped
		{Name: "unix path", Input: "holiday/beach.jpg", Want: "beach.jpg"},
		{Name: "traversal attempt", Input: "../../etc/passwd", Want: "passwd"},
		{Name: "windows path", Input: `C:\Users\me\pic.jpg`, Want: "pic.jpg"},

		// Forbidden characters are dropped
		{Name: "question mark", Input: "file?.txt", Want: "file.txt"},
		{Name: "hash and tilde", Input: "report#final~.pdf", Want: "reportfinal.pdf"},
		{Name: "quotes and angle brackets", Input: `a"b<c>d.txt`, Want: "abcd.txt"},
		{Name: "control characters", Input: "a\x00b\x1fc.png", Want: "abc.png"},

		// Leading dots and underscores are trimmed
		{Name: "hidden file", Input: ".hidden", Want: "hidden"},
		{Name: "leading underscores", Input: "__name.txt", Want: "name.txt"},

		// Nothing usable survives
		{Name: "empty", Input: "", WantErr: true},
		{Name: "single dot", Input: ".", WantErr: true},
		{Name: "double dot", Input: "..", WantErr: true},
		{Name: "only forbidden characters", Input: `???###`, WantErr: true},
		{Name: "trailing slash", Input: "dir/", WantErr: true},

		// Hard limits
		{Name: "too long", Input: strings.Repeat("a", 256), WantErr: true},
		{Name: "max length ok", Input: strings.Repeat("a", 255), Want: strings.Repeat("a", 255)},
		{Name: "invalid utf8", Input: invalidUTF8, WantErr: true},
	}

	// sanity check for our generated invalid UTF-8 case
	if utf8.ValidString(invalidUTF8) {
		t.Fatalf("test setup error: invalidUTF8 is unexpectedly valid")
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := picshelf.SanitizeFilename(tc.Input)
			if tc.WantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tc.Input, got)
				}
				if !errors.Is(err, picshelf.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput for %q, got %v", tc.Input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.Input, err)
			}
			if got != tc.Want {
				t.Errorf("expected %q, got %q", tc.Want, got)
			}
		})
	}
}

func TestIsValidTableName(t *testing.T) {
	tt := []struct {
		Name  string
		Input string
		Want  bool
	}{
		{Name: "simple name", Input: "images", Want: true},
		{Name: "with underscore", Input: "gallery_images", Want: true},
		{Name: "leading underscore", Input: "_images", Want: true},
		{Name: "with digits", Input: "images2", Want: true},
		{Name: "empty", Input: "", Want: false},
		{Name: "leading digit", Input: "2images", Want: false},
		{Name: "uppercase", Input: "Images", Want: false},
		{Name: "hyphen", Input: "gallery-images", Want: false},
		{Name: "injection attempt", Input: "images; DROP TABLE users", Want: false},
		{Name: "too long", Input: strings.Repeat("a", 64), Want: false},
		{Name: "max length ok", Input: strings.Repeat("a", 63), Want: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			if got := picshelf.IsValidTableName(tc.Input); got != tc.Want {
				t.Errorf("expected IsValidTableName(%q) = %v, got %v", tc.Input, tc.Want, got)
			}
		})
	}
}

func TestTables_Validate(t *testing.T) {
	tests := []struct {
		name      string
		tables    picshelf.Tables
		wantError bool
	}{
		{
			name:      "valid tables",
			tables:    picshelf.Tables{Images: "images", Users: "users"},
			wantError: false,
		},
		{
			name:      "missing images table",
			tables:    picshelf.Tables{Users: "users"},
			wantError: true,
		},
		{
			name:      "missing users table",
			tables:    picshelf.Tables{Images: "images"},
			wantError: true,
		},
		{
			name:      "invalid images table name",
			tables:    picshelf.Tables{Images: "Images!", Users: "users"},
			wantError: true,
		},
		{
			name:      "invalid users table name",
			tables:    picshelf.Tables{Images: "images", Users: "users; --"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tables.Validate()
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
