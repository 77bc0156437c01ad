package rewrite

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonObjectExpr = regexp.MustCompile(`(?s)\{.*\}`)
	quotedExpr     = regexp.MustCompile(`["“”](.*?)["“”]`)
	labelExpr      = regexp.MustCompile(`(?i)^(New Title:|Title:|Rewritten Title:|Here's a rewritten title that is concise:)\s*`)
)

var jsonTitleKeys = []string{"title", "new_title", "rewritten_title"}

// ExtractTitle pulls the intended title out of raw model output. Models keep
// inventing wrappers, so this tries, in order: an embedded JSON object, a
// quoted substring, the last non-empty line with known labels stripped, and
// finally the whole output collapsed to one line.
func ExtractTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	if match := jsonObjectExpr.FindString(content); match != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(match), &obj); err == nil {
			for _, key := range jsonTitleKeys {
				if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v)
				}
			}
		}
	}

	if m := quotedExpr.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}

	var lines []string
	for _, ln := range strings.Split(content, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	if len(lines) > 0 {
		last := labelExpr.ReplaceAllString(lines[len(lines)-1], "")
		last = strings.Trim(last, ` "'`)
		if last != "" {
			return last
		}
	}

	return strings.Join(strings.Fields(content), " ")
}

// CleanTitle strips the whitespace and quote characters models like to wrap
// their answers in.
func CleanTitle(title string) string {
	return strings.Trim(strings.TrimSpace(title), `"'“”‘’`)
}
