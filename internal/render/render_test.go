package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"videodocs/internal/markers"
)

func TestWriteMarkdownAssemblesDocument(t *testing.T) {
	dir := t.TempDir()
	doc := Document{
		Title:           "Intro to Widgets",
		URL:             "https://example.com/v/1",
		DurationSeconds: 125,
		Uploader:        "alice",
		Intro:           "A short intro.",
		Content:         "# Widgets\n\n![the dashboard](images/01:30.jpg)\n\nText.",
		Frames:          markers.FrameMap{"01:30": "/tasks/task_1/output/images/01_30.jpg"},
	}

	path, err := WriteMarkdown(doc, dir, nil)
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if filepath.Base(path) != "Intro to Widgets.md" {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{
		"# Intro to Widgets",
		"> Source: [https://example.com/v/1](https://example.com/v/1)",
		"> Duration: 02:05",
		"> Uploader: alice",
		"A short intro.",
		"![the dashboard](images/01_30.jpg)",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("document missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "01:30.jpg") {
		t.Fatalf("unresolved colon reference remains:\n%s", content)
	}
}

func TestWriteMarkdownSanitizesTitle(t *testing.T) {
	dir := t.TempDir()
	doc := Document{
		Title:   `What <is> "Go"?`,
		URL:     "https://example.com",
		Content: "body",
	}
	path, err := WriteMarkdown(doc, dir, nil)
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	base := filepath.Base(path)
	if strings.ContainsAny(base, `<>:"/\|?*`) {
		t.Fatalf("unsanitized filename %q", base)
	}
}

func TestWriteMarkdownCommentsMissingFrames(t *testing.T) {
	dir := t.TempDir()
	doc := Document{
		Title:   "doc",
		Content: "![gone](images/09:59.jpg)",
		Frames:  markers.FrameMap{},
	}
	path, err := WriteMarkdown(doc, dir, nil)
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<!-- [IMAGE: 09:59] -->") {
		t.Fatalf("missing fallback comment:\n%s", data)
	}
}

func TestWriteMarkdownRejectsEmptyContent(t *testing.T) {
	if _, err := WriteMarkdown(Document{Title: "t"}, t.TempDir(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPDFRender(t *testing.T) {
	var gotDir, gotName string
	var gotArgs []string
	renderer := NewPDFRenderer("", time.Second, nil)
	renderer.WithCommandRunner(func(_ context.Context, dir, name string, args ...string) error {
		gotDir = dir
		gotName = name
		gotArgs = args
		return nil
	})

	pdfPath, err := renderer.Render(context.Background(), "/out/task_1/output/My Doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if pdfPath != "/out/task_1/output/My Doc.pdf" {
		t.Fatalf("pdfPath = %q", pdfPath)
	}
	if gotDir != "/out/task_1/output" || gotName != "pandoc" {
		t.Fatalf("dir = %q, binary = %q", gotDir, gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"My Doc.md", "-o My Doc.pdf", "--resource-path=.:images"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, gotArgs)
		}
	}
}

func TestPDFRenderPropagatesFailure(t *testing.T) {
	renderer := NewPDFRenderer("pandoc", time.Second, nil)
	renderer.WithCommandRunner(func(context.Context, string, string, ...string) error {
		return errors.New("missing latex engine")
	})
	if _, err := renderer.Render(context.Background(), "/out/doc.md"); err == nil {
		t.Fatal("expected error")
	}
}
