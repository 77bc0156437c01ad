package htmltext

import "testing"

func TestFlattenStripsMarkup(t *testing.T) {
	t.Parallel()

	html := `<p>Soft <strong>merino</strong> wool sweater.</p><ul><li>Warm</li><li>Machine washable</li></ul>`
	got := Flatten(html, 0)

	want := "Soft merino wool sweater. Warm Machine washable"
	if got != want {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestFlattenCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := Flatten("  plain\n\ttext   here ", 0)
	if got != "plain text here" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestFlattenCapsRunes(t *testing.T) {
	t.Parallel()

	got := Flatten("<p>abcdef ghij</p>", 6)
	if got != "abcdef" {
		t.Fatalf("expected capped text, got %q", got)
	}
}
