// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package segment

import (
	"regexp"
	"strings"
)

var (
	// A word broken across a line: "know-\nledge" -> "knowledge".
	hyphenBreakRe = regexp.MustCompile(`(\w)-\r?\n\s*(\w)`)

	// A whitespace run containing at least two newlines is a paragraph break.
	paragraphRe = regexp.MustCompile(`\n\s*\n`)

	// Any remaining whitespace run collapses to a single space.
	whitespaceRe = regexp.MustCompile(`\s+`)

	placeholderRe = regexp.MustCompile(` *\x00 *`)
)

// Normalize repairs PDF-artifact noise in extracted text. It rejoins words
// split by hyphenated line breaks, collapses redundant whitespace to single
// spaces, reduces paragraph breaks to exactly one blank line, and trims the
// result. The pass is deterministic and side-effect-free.
func Normalize(text string) string {
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")

	// Mark paragraph breaks before collapsing whitespace, then restore them.
	text = paragraphRe.ReplaceAllString(text, "\x00")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = placeholderRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
