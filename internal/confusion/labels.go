package confusion

import (
	"strings"
	"unicode/utf8"
)

// LabelBudget is the display budget, in characters, for multi-level labels.
const LabelBudget = 28

const labelSep = "__"

// ShortLabel derives the display form of a multi-level label: the first
// character, an underscore, and the segment after the last "__".
// Labels without a "__" delimiter are returned unchanged.
//
//	ShortLabel("SiteA__Indoor__Room1") == "S_Room1"
func ShortLabel(full string) string {
	idx := strings.LastIndex(full, labelSep)
	if idx < 0 {
		return full
	}
	first, _ := utf8.DecodeRuneInString(full)
	return string(first) + "_" + full[idx+len(labelSep):]
}

// ShortenLabel fits a multi-level label into budget characters. It first
// collapses the leading segment to its first character, then also drops the
// second segment, and finally truncates with an ellipsis.
//
//	"Lise-Meitner-Str-9_9377__Indoor__9377_Hallways" -> "L__Indoor__9377_Hallways"
func ShortenLabel(name string, budget int) string {
	out := name
	if utf8.RuneCountInString(out) > budget {
		out = collapseSegments(name, 1)
	}
	if utf8.RuneCountInString(out) > budget {
		out = collapseSegments(name, 2)
	}
	if utf8.RuneCountInString(out) > budget {
		out = truncate(out, budget)
	}
	return out
}

func collapseSegments(name string, depth int) string {
	firstIdx := strings.Index(name, labelSep)
	if firstIdx < 0 {
		return name
	}
	first, _ := utf8.DecodeRuneInString(name)
	if depth == 1 {
		return string(first) + name[firstIdx:]
	}
	secondIdx := strings.Index(name[firstIdx+len(labelSep):], labelSep)
	if secondIdx < 0 {
		return string(first) + name[firstIdx:]
	}
	return string(first) + name[firstIdx+len(labelSep)+secondIdx:]
}

func truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget == 1 {
		return "…"
	}
	return string(runes[:budget-1]) + "…"
}
