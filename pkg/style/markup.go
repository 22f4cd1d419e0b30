package style

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tagRule struct {
	tag     string
	style   lipgloss.Style
	pattern *regexp.Regexp
}

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	rules []tagRule
}

// NewMarkupParser returns a parser for the message and section title tags
func NewMarkupParser() *MarkupParser {
	styles := map[string]lipgloss.Style{
		"title":    TitleStyle,
		"subtitle": SubtitleStyle,
		"success":  SuccessStyle,
		"error":    ErrorStyle,
		"warning":  WarningStyle,
		"info":     InfoStyle,
		"code":     CodeStyle,
		"path":     PathStyle,
		"muted":    MutedStyle,
		"build":    BuildStyle,
		"tree":     TreeStyle,
		"binaries": BinariesStyle,
		"hook":     HookStyle,
	}

	tags := make([]string, 0, len(styles))
	for tag := range styles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	p := &MarkupParser{rules: make([]tagRule, 0, len(tags))}
	for _, tag := range tags {
		p.rules = append(p.rules, tagRule{
			tag:     tag,
			style:   styles[tag],
			pattern: regexp.MustCompile(`\[` + tag + `\](.*?)\[/` + tag + `\]`),
		})
	}
	return p
}

// Render replaces every tagged span with its styled form. Nested tags are
// resolved innermost first by repeating until the text stops changing.
func (p *MarkupParser) Render(text string) string {
	for {
		before := text
		for _, r := range p.rules {
			text = r.pattern.ReplaceAllStringFunc(text, func(match string) string {
				return r.style.Render(r.pattern.FindStringSubmatch(match)[1])
			})
		}
		if text == before {
			return text
		}
	}
}

// Plain removes every known tag and leaves the content unstyled
func (p *MarkupParser) Plain(text string) string {
	for _, r := range p.rules {
		text = strings.ReplaceAll(text, "["+r.tag+"]", "")
		text = strings.ReplaceAll(text, "[/"+r.tag+"]", "")
	}
	return text
}

var defaultParser = NewMarkupParser()

func Render(text string) string {
	return defaultParser.Render(text)
}

func Plain(text string) string {
	return defaultParser.Plain(text)
}
