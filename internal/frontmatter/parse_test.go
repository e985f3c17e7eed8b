package frontmatter

import (
	"strings"
	"testing"
)

type summary struct {
	Total     int    `yaml:"total"`
	Directory string `yaml:"directory"`
	Generated string `yaml:"generated"`
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantFM   string
		wantBody string
	}{
		{
			name:     "valid frontmatter",
			content:  "---\ntotal: 4\n---\n\n# Report\n",
			wantFM:   "\ntotal: 4",
			wantBody: "# Report",
		},
		{
			name:     "body keeps later rules",
			content:  "---\ntotal: 4\n---\n# Report\n\n---\nGenerated: now\n",
			wantFM:   "\ntotal: 4",
			wantBody: "# Report\n\n---\nGenerated: now",
		},
		{
			name:     "empty frontmatter",
			content:  "---\n---\nBody only",
			wantFM:   "",
			wantBody: "Body only",
		},
		{
			name:    "missing opening delimiter",
			content: "no frontmatter here",
			wantErr: true,
		},
		{
			name:    "missing closing delimiter",
			content: "---\ntitle: Test\nincomplete",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Split([]byte(tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(doc.Frontmatter) != tt.wantFM {
				t.Errorf("frontmatter = %q, want %q", doc.Frontmatter, tt.wantFM)
			}
			if doc.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", doc.Body, tt.wantBody)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	in := summary{Total: 4, Directory: "./covers/", Generated: "2024-05-01 09:30:00"}

	content, err := Encode(in, "# Report\n")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasPrefix(string(content), "---\ntotal: 4\n") {
		t.Errorf("unexpected document start: %q", content)
	}
	// timestamp-looking strings must stay strings
	if !strings.Contains(string(content), `generated: "2024-05-01 09:30:00"`) {
		t.Errorf("generated not quoted: %q", content)
	}

	var out summary
	body, err := Decode(content, &out)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out != in {
		t.Errorf("decoded %+v, want %+v", out, in)
	}
	if body != "# Report" {
		t.Errorf("body = %q", body)
	}
}

func TestDecode_InvalidYAML(t *testing.T) {
	var out summary
	if _, err := Decode([]byte("---\ntotal: [1\n---\nbody"), &out); err == nil {
		t.Fatal("expected YAML error")
	}
}
