package preview

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/lotabout/skim/internal/fields"
	"github.com/lotabout/skim/internal/item"
)

// placeholderPattern matches `{}`, `{+}`, `{n}`, `{+n}`, `{s}`, `{q}`,
// `{1}`, `{2,3}`, `{1..3}` and an escaping backslash before any of these.
var placeholderPattern = regexp.MustCompile(`\\?(?:\{[+sf]*[0-9,.\-]*\}|\{q\}|\{\+?f?nf?\})`)

type placeholderFlags struct {
	plus          bool // use the selected/marked list instead of the current item
	preserveSpace bool // {s}: don't trim the substituted text
	number        bool // {n}: substitute the item's index instead of its text
	file          bool // {f}: write the substitution to a temp file, return its path
	query         bool // {q}: substitute the current query string
}

func parsePlaceholder(match string) (escaped bool, rest string, flags placeholderFlags) {
	if match[0] == '\\' {
		return true, match[1:], flags
	}
	skip := 1
loop:
	for _, c := range match[1:] {
		switch c {
		case '+':
			flags.plus = true
			skip++
		case 's':
			flags.preserveSpace = true
			skip++
		case 'n':
			flags.number = true
			skip++
		case 'f':
			flags.file = true
			skip++
		case 'q':
			flags.query = true
		default:
			break loop
		}
	}
	return false, "{" + match[skip:], flags
}

// HasSlot reports whether template contains any placeholder at all, and
// whether any of them require the marked-selection list ("{+...}") or the
// current query ("{q}").
func HasSlot(template string) (slot, plus, query bool) {
	for _, m := range placeholderPattern.FindAllString(template, -1) {
		_, _, flags := parsePlaceholder(m)
		slot = true
		if flags.plus {
			plus = true
		}
		if flags.query {
			query = true
		}
	}
	return
}

// quoteEntry single-quotes entry for a POSIX shell, escaping embedded
// single quotes the `'\''` way.
func quoteEntry(entry string) string {
	return "'" + strings.Replace(entry, "'", `'\''`, -1) + "'"
}

// WriteTempFile, when set, persists the {f}-substituted lines to a
// temporary file and returns its path; nil disables {f} support.
type WriteTempFile func(lines []string, sep string) (string, error)

// Render substitutes every placeholder in template. current is the item
// under the cursor (nil if the view is empty); selected is the
// multi-selected list (used in place of current for any "+"-flagged
// placeholder, or unconditionally when forcePlus is set). query is the
// current query text; delimiter drives the {N}/{N,M} field projection
// the same way --nth does.
func Render(template string, delimiter fields.Delimiter, current *item.Entry, selected []*item.Entry, query string, forcePlus bool, writeTemp WriteTempFile) string {
	items := selected
	if !forcePlus {
		items = nil
		if current != nil {
			items = []*item.Entry{current}
		}
	} else if items == nil && current != nil {
		items = []*item.Entry{current}
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		escaped, rest, flags := parsePlaceholder(match)
		if escaped {
			return rest
		}
		if rest == "{q}" {
			return quoteEntry(query)
		}

		useItems := items
		if flags.plus || forcePlus {
			useItems = selected
		}

		if rest == "{}" {
			reps := make([]string, len(useItems))
			for i, it := range useItems {
				switch {
				case flags.number:
					reps[i] = strconv.Itoa(int(it.Index))
				case flags.file:
					reps[i] = it.AsOutput()
				default:
					reps[i] = quoteEntry(it.AsOutput())
				}
			}
			if flags.file && writeTemp != nil {
				path, err := writeTemp(reps, "\n")
				if err == nil {
					return path
				}
			}
			return strings.Join(reps, " ")
		}

		rangeTokens := strings.Split(rest[1:len(rest)-1], ",")
		ranges := make([]fields.Range, 0, len(rangeTokens))
		for _, tok := range rangeTokens {
			r, ok := fields.ParseRange(tok)
			if !ok {
				return match
			}
			ranges = append(ranges, r)
		}

		reps := make([]string, len(useItems))
		for i, it := range useItems {
			toks := fields.Tokenize(it.AsOutput(), delimiter)
			sliced := fields.Transform(toks, ranges)
			str := joinFieldText(sliced)
			if !flags.preserveSpace {
				str = strings.TrimSpace(str)
			}
			if !flags.file {
				str = quoteEntry(str)
			}
			reps[i] = str
		}
		if flags.file && writeTemp != nil {
			path, err := writeTemp(reps, "\n")
			if err == nil {
				return path
			}
		}
		return strings.Join(reps, " ")
	})
}

func joinFieldText(tokens []fields.Token) string {
	var buf bytes.Buffer
	for _, t := range tokens {
		buf.WriteString(t.Text.ToString())
	}
	return buf.String()
}
