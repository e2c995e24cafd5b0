// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdwrap reflows Markdown deterministically: paragraphs wrapped at a
// fixed column, bullets normalized to "-", trailing whitespace stripped, and
// blank runs collapsed. Rewrapping already-wrapped text yields identical
// bytes, which is what makes stored prompts and converted documents stable.
package mdwrap

import "strings"

// Width is the wrap column used for all stored Markdown.
const Width = 80

// Rewrap canonicalizes md. Fenced code blocks, headings, and tables pass
// through untouched; consecutive plain lines are joined into one paragraph
// and re-wrapped at Width columns; "* " and "+ " bullets become "- ".
func Rewrap(md string) string {
	lines := strings.Split(md, "\n")

	var out []string
	var para []string
	bulletIndent := ""
	inBullet := false
	inFence := false
	lastBlank := false

	emit := func(line string) {
		blank := strings.TrimSpace(line) == ""
		if blank && lastBlank {
			return
		}
		out = append(out, strings.TrimRight(line, " \t"))
		lastBlank = blank
	}

	flushPara := func() {
		if len(para) == 0 {
			inBullet = false
			return
		}
		joined := strings.Join(para, " ")
		first, rest := "", ""
		if inBullet {
			first, rest = bulletIndent+"- ", bulletIndent+"  "
		}
		for _, w := range wrapLine(joined, Width, first, rest) {
			emit(w)
		}
		para = nil
		inBullet = false
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			flushPara()
			emit(line)
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, raw)
			lastBlank = false
			continue
		}

		switch {
		case trimmed == "":
			flushPara()
			emit("")
		case strings.HasPrefix(trimmed, "#"):
			flushPara()
			emit(line)
		case strings.HasPrefix(trimmed, "|"):
			flushPara()
			emit(line)
		case isBullet(trimmed):
			flushPara()
			inBullet = true
			bulletIndent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			para = append(para, strings.TrimSpace(trimmed[2:]))
			lastBlank = false
		case isNumbered(trimmed):
			flushPara()
			emit(line)
		default:
			// An indented line under an open bullet is its continuation.
			if inBullet && !strings.HasPrefix(line, bulletIndent+" ") {
				flushPara()
			}
			para = append(para, trimmed)
			lastBlank = false
		}
	}
	flushPara()

	// Trim leading/trailing blank lines.
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n") + "\n"
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "+ ")
}

// isNumbered reports whether the line is an ordered-list item like "1. x".
func isNumbered(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

// wrapLine word-wraps text at width. The first output line is prefixed with
// first, continuation lines with rest. Words longer than the width are kept
// whole on their own line.
func wrapLine(text string, width int, first, rest string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var out []string
	prefix := first
	current := prefix

	for _, w := range words {
		if current == prefix {
			current += w
			continue
		}
		if len(current)+1+len(w) > width {
			out = append(out, current)
			prefix = rest
			current = prefix + w
			continue
		}
		current += " " + w
	}
	out = append(out, current)
	return out
}
