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


package openai

// repairJSON attempts to fix common JSON formatting issues in LLM output
// before unmarshaling: trailing commas before a closing brace or bracket,
// and stray text after the final closing brace. String contents are left
// untouched.
func repairJSON(s string) string {
	in := []byte(s)
	out := make([]byte, 0, len(in))

	depth := 0
	inString := false
	escaped := false
	lastObjectEnd := -1

	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
		case ',':
			// Drop the comma if the next non-whitespace byte closes a
			// container.
			j := i + 1
			for j < len(in) && (in[j] == ' ' || in[j] == '\n' || in[j] == '\t' || in[j] == '\r') {
				j++
			}
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			out = append(out, ch)
		case '{', '[':
			depth++
			out = append(out, ch)
		case '}', ']':
			depth--
			out = append(out, ch)
			if depth == 0 && lastObjectEnd < 0 {
				lastObjectEnd = len(out)
			}
		default:
			out = append(out, ch)
		}
	}

	// Trim trailing commentary after the top-level value closes.
	if lastObjectEnd > 0 && lastObjectEnd < len(out) {
		out = out[:lastObjectEnd]
	}

	return string(out)
}
