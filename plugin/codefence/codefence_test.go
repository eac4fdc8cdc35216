package codefence

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		input string
		want  FileName
	}{
		{"App.tsx", FileName{Name: "App", Extension: "tsx"}},
		{"clock.tsx", FileName{Name: "clock", Extension: "tsx"}},
		{"script", FileName{Name: "script", Extension: ""}},
		{"archive.tar.gz", FileName{Name: "archive.tar", Extension: "gz"}},
		{"", FileName{Name: "", Extension: ""}},
		{".env", FileName{Name: "", Extension: "env"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFileName(tt.input)
			if got != tt.want {
				t.Errorf("ParseFileName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFirstCodeBlock(t *testing.T) {
	t.Run("fence with language and filename", func(t *testing.T) {
		input := "intro\n```tsx{filename=Calculator.tsx}\nconst a = 1;\n```\noutro"
		block := ExtractFirstCodeBlock(input)
		if block == nil {
			t.Fatal("expected a code block, got nil")
		}
		if block.Code != "const a = 1;" {
			t.Errorf("Code = %q", block.Code)
		}
		if block.Language != "tsx" {
			t.Errorf("Language = %q", block.Language)
		}
		if block.Filename == nil || *block.Filename != (FileName{Name: "Calculator", Extension: "tsx"}) {
			t.Errorf("Filename = %+v", block.Filename)
		}
	})

	t.Run("fence without filename annotation", func(t *testing.T) {
		block := ExtractFirstCodeBlock("```python\nprint('hi')\n```")
		if block == nil {
			t.Fatal("expected a code block, got nil")
		}
		if block.Language != "python" {
			t.Errorf("Language = %q", block.Language)
		}
		if block.Filename != nil {
			t.Errorf("Filename should be nil, got %+v", block.Filename)
		}
	})

	t.Run("fence tag with spaces in annotation", func(t *testing.T) {
		block := ExtractFirstCodeBlock("```tsx{ filename = App.tsx }\nx\n```")
		if block == nil {
			t.Fatal("expected a code block, got nil")
		}
		if block.Filename == nil || block.Filename.Name != "App" || block.Filename.Extension != "tsx" {
			t.Errorf("Filename = %+v", block.Filename)
		}
	})

	t.Run("no fence", func(t *testing.T) {
		if block := ExtractFirstCodeBlock("plain prose only"); block != nil {
			t.Errorf("expected nil, got %+v", block)
		}
	})

	t.Run("only the first fence is extracted", func(t *testing.T) {
		input := "```ts\nfirst\n```\n```ts\nsecond\n```"
		block := ExtractFirstCodeBlock(input)
		if block == nil {
			t.Fatal("expected a code block, got nil")
		}
		if block.Code != "first" {
			t.Errorf("Code = %q, want %q", block.Code, "first")
		}
	})
}

func TestSplit_NoFence(t *testing.T) {
	input := "سلام! این یک پیام ساده است.\nبدون هیچ کدی."
	parts := Split(input)

	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Type != PartText {
		t.Errorf("Type = %q, want %q", parts[0].Type, PartText)
	}
	// The whole buffer passes through untouched, whitespace included.
	if parts[0].Content != input {
		t.Errorf("Content = %q, want full input", parts[0].Content)
	}
}

func TestSplit_CompleteFence(t *testing.T) {
	input := "در ادامه کد ساعت دیجیتال:\n\n```tsx{filename=clock.tsx}\nexport default function Clock() {}\n```\n\nتوضیحات پایانی."
	parts := Split(input)

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(parts), parts)
	}

	if parts[0].Type != PartText || parts[0].Content != "در ادامه کد ساعت دیجیتال:" {
		t.Errorf("leading part = %+v", parts[0])
	}

	code := parts[1]
	if code.Type != PartFirstCodeFence {
		t.Errorf("Type = %q, want %q", code.Type, PartFirstCodeFence)
	}
	if code.Content != "export default function Clock() {}" {
		t.Errorf("Content = %q", code.Content)
	}
	if code.Language != "tsx" {
		t.Errorf("Language = %q", code.Language)
	}
	if code.Filename.Name != "clock" || code.Filename.Extension != "tsx" {
		t.Errorf("Filename = %+v", code.Filename)
	}

	if parts[2].Type != PartText || parts[2].Content != "توضیحات پایانی." {
		t.Errorf("trailing part = %+v", parts[2])
	}
}

func TestSplit_CompleteFenceWithoutProse(t *testing.T) {
	parts := Split("```python\nprint('test')\n```")

	if len(parts) != 1 {
		t.Fatalf("expected only the code part, got %d parts", len(parts))
	}
	if parts[0].Type != PartFirstCodeFence {
		t.Errorf("Type = %q", parts[0].Type)
	}
	if parts[0].Language != "python" {
		t.Errorf("Language = %q", parts[0].Language)
	}
	// No annotation: falls back to the default artifact name.
	if parts[0].Filename.Name != "code" || parts[0].Filename.Extension != "tsx" {
		t.Errorf("Filename = %+v", parts[0].Filename)
	}
}

func TestSplit_MultipleFencesMerged(t *testing.T) {
	input := "part one:\n```tsx{filename=App.tsx}\nconst a = 1;\n```\nand part two:\n```tsx\nconst b = 2;\n```\ndone."
	parts := Split(input)

	var code *Part
	for i := range parts {
		if parts[i].Type == PartFirstCodeFence {
			if code != nil {
				t.Fatal("expected a single code part")
			}
			code = &parts[i]
		}
	}
	if code == nil {
		t.Fatal("expected a code part")
	}
	if code.Content != "const a = 1;\n\nconst b = 2;" {
		t.Errorf("merged content = %q", code.Content)
	}
	// Metadata comes from the first fence.
	if code.Filename.Name != "App" {
		t.Errorf("Filename = %+v", code.Filename)
	}
	if parts[len(parts)-1].Content != "done." {
		t.Errorf("trailing part = %+v", parts[len(parts)-1])
	}
}

func TestSplit_Generating(t *testing.T) {
	input := "بریم سراغ کد:\n```tsx{filename=clock.tsx}\nexport default function Clock() {\n  return <div>"
	parts := Split(input)

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].Type != PartText || parts[0].Content != "بریم سراغ کد:" {
		t.Errorf("leading part = %+v", parts[0])
	}

	gen := parts[1]
	if gen.Type != PartFirstCodeFenceGenerating {
		t.Errorf("Type = %q", gen.Type)
	}
	want := strings.TrimSpace("export default function Clock() {\n  return <div>")
	if gen.Content != want {
		t.Errorf("Content = %q, want %q", gen.Content, want)
	}
	if gen.Filename.Name != "clock" || gen.Filename.Extension != "tsx" {
		t.Errorf("Filename = %+v", gen.Filename)
	}
	if gen.Language != "tsx" {
		t.Errorf("Language = %q", gen.Language)
	}
}

func TestSplit_GeneratingFenceLineIncomplete(t *testing.T) {
	// The opening backticks arrived but the newline after the tag has not,
	// so there is no code content to classify yet.
	parts := Split("intro text\n```ts")

	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d: %+v", len(parts), parts)
	}
	if parts[0].Type != PartText || parts[0].Content != "intro text" {
		t.Errorf("part = %+v", parts[0])
	}
}

func TestSplit_GeneratingWithoutLeadingText(t *testing.T) {
	parts := Split("```python\nimport sys\n")

	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Type != PartFirstCodeFenceGenerating {
		t.Errorf("Type = %q", parts[0].Type)
	}
	if parts[0].Content != "import sys" {
		t.Errorf("Content = %q", parts[0].Content)
	}
	if parts[0].Language != "python" {
		t.Errorf("Language = %q", parts[0].Language)
	}
}

// A growing buffer is reclassified from scratch on every chunk, so the
// classifier must be deterministic and must promote a generating part to a
// complete one once the closing fence arrives.
func TestSplit_StreamingProgression(t *testing.T) {
	full := "یک ساعت دیجیتال می‌سازیم.\n```tsx{filename=clock.tsx}\nexport default function Clock() {}\n```\nهمین!"

	var sawGenerating, sawComplete bool
	for i := 1; i <= len(full); i++ {
		if !isRuneBoundary(full, i) {
			continue
		}
		for _, part := range Split(full[:i]) {
			switch part.Type {
			case PartFirstCodeFenceGenerating:
				sawGenerating = true
			case PartFirstCodeFence:
				sawComplete = true
			}
		}
	}
	if !sawGenerating {
		t.Error("expected a generating part at some prefix")
	}
	if !sawComplete {
		t.Error("expected a complete part once the buffer closed the fence")
	}

	// Determinism: classifying the same buffer twice yields identical parts.
	first := Split(full)
	second := Split(full)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification is not deterministic: %+v vs %+v", first, second)
	}
}

func isRuneBoundary(s string, i int) bool {
	if i == len(s) {
		return true
	}
	return (s[i] & 0xC0) != 0x80
}
