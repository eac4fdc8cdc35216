// Package codefence classifies assistant output into prose and the first
// fenced code block. It is called on every streamed chunk against the full
// accumulated buffer, so all functions are pure and stateless: the same
// input always yields the same parts, and a growing buffer may move from
// "generating" to "complete" between calls.
package codefence

import (
	"regexp"
	"strings"
)

// PartType discriminates the classified segments of a message.
type PartType string

const (
	// PartText is prose before or after the first fenced code block.
	PartText PartType = "text"
	// PartFirstCodeFence is a completed triple-backtick block.
	PartFirstCodeFence PartType = "first-code-fence"
	// PartFirstCodeFenceGenerating is an opened but not yet closed block,
	// i.e. the model is still emitting code.
	PartFirstCodeFenceGenerating PartType = "first-code-fence-generating"
)

// FileName is a file name split at its last dot.
type FileName struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Part is one classified segment of a message.
type Part struct {
	Type     PartType `json:"type"`
	Content  string   `json:"content"`
	Filename FileName `json:"filename"`
	Language string   `json:"language"`
}

// CodeBlock is the first complete fenced block of a message.
type CodeBlock struct {
	Code      string
	Language  string
	Filename  *FileName // nil when the fence tag carries no filename annotation
	FullMatch string
}

var (
	// Matches a complete fence: ```<tag>\n<body>\n```. The body match is
	// non-greedy so the first closing fence wins.
	fenceRegexp = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)\n```")
	// Matches an opening fence line only, for the still-generating case.
	openFenceRegexp = regexp.MustCompile("```([^\n]*)\n")
	// Leading alphanumeric run of a fence tag, e.g. "tsx" in
	// "tsx{filename=App.tsx}".
	languageRegexp = regexp.MustCompile(`^[A-Za-z0-9]+`)
	// Brace annotation after the language, e.g. {filename=App.tsx}.
	filenameRegexp = regexp.MustCompile(`\{\s*filename\s*=\s*([^}]+?)\s*\}`)
)

// ParseFileName splits a file name at its last dot. A name without a dot
// yields an empty extension.
func ParseFileName(fileName string) FileName {
	idx := strings.LastIndex(fileName, ".")
	if idx == -1 {
		return FileName{Name: fileName}
	}
	return FileName{Name: fileName[:idx], Extension: fileName[idx+1:]}
}

// ExtractFirstCodeBlock returns the first complete fenced block of input,
// or nil when none exists. The language is the leading alphanumeric run of
// the fence tag and may be empty.
func ExtractFirstCodeBlock(input string) *CodeBlock {
	match := fenceRegexp.FindStringSubmatch(input)
	if match == nil {
		return nil
	}

	fenceTag := match[1]
	block := &CodeBlock{
		Code:      match[2],
		Language:  languageRegexp.FindString(fenceTag),
		FullMatch: match[0],
	}
	if fileMatch := filenameRegexp.FindStringSubmatch(fenceTag); fileMatch != nil {
		filename := ParseFileName(fileMatch[1])
		block.Filename = &filename
	}
	return block
}

// Split classifies the accumulated message text into an ordered sequence of
// parts. The first complete fence is the artifact; bodies of any further
// complete fences are folded into it, and only the text before the first
// fence and after the last fence survive as prose. An opened but unclosed
// fence yields a single generating part holding everything after the
// opening line.
func Split(markdown string) []Part {
	blocks := fenceRegexp.FindAllStringSubmatch(markdown, -1)
	if len(blocks) > 0 {
		return splitComplete(markdown, blocks)
	}

	if strings.Contains(markdown, "```") && !strings.HasSuffix(markdown, "```") {
		return splitGenerating(markdown)
	}

	return []Part{{Type: PartText, Content: markdown}}
}

func splitComplete(markdown string, blocks [][]string) []Part {
	result := []Part{}

	fenceTag := blocks[0][1]
	filename, language := parseFenceTag(fenceTag)

	segments := fenceRegexp.Split(markdown, -1)

	if leading := strings.TrimSpace(segments[0]); leading != "" {
		result = append(result, Part{Type: PartText, Content: leading})
	}

	// Several complete fences in one message are merged into a single
	// logical artifact.
	bodies := make([]string, 0, len(blocks))
	for _, block := range blocks {
		bodies = append(bodies, block[2])
	}
	result = append(result, Part{
		Type:     PartFirstCodeFence,
		Content:  strings.Join(bodies, "\n\n"),
		Filename: filename,
		Language: language,
	})

	if trailing := strings.TrimSpace(segments[len(segments)-1]); trailing != "" {
		result = append(result, Part{Type: PartText, Content: trailing})
	}

	return result
}

func splitGenerating(markdown string) []Part {
	result := []Part{}

	loc := openFenceRegexp.FindStringSubmatchIndex(markdown)
	if loc == nil {
		// The opening backticks arrived but the fence line has no newline
		// yet; only the prose before it is classifiable.
		before := markdown[:strings.Index(markdown, "```")]
		if leading := strings.TrimSpace(before); leading != "" {
			result = append(result, Part{Type: PartText, Content: leading})
		}
		return result
	}

	if leading := strings.TrimSpace(markdown[:loc[0]]); leading != "" {
		result = append(result, Part{Type: PartText, Content: leading})
	}

	fenceTag := markdown[loc[2]:loc[3]]
	filename, language := parseFenceTag(fenceTag)

	result = append(result, Part{
		Type:     PartFirstCodeFenceGenerating,
		Content:  strings.TrimSpace(markdown[loc[1]:]),
		Filename: filename,
		Language: language,
	})

	return result
}

// parseFenceTag resolves the filename annotation and language of a fence
// tag, applying the "code.tsx" / "tsx" defaults used for untagged fences.
func parseFenceTag(fenceTag string) (FileName, string) {
	filename := FileName{Name: "code", Extension: "tsx"}
	if fileMatch := filenameRegexp.FindStringSubmatch(fenceTag); fileMatch != nil {
		filename = ParseFileName(fileMatch[1])
	}

	language := strings.TrimSpace(fenceTag)
	if idx := strings.Index(fenceTag, "{"); idx > -1 {
		language = strings.TrimSpace(fenceTag[:idx])
	}
	if language == "" {
		language = "tsx"
	}

	return filename, language
}
