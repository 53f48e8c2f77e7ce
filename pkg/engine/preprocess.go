package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene source into something zygomys accepts:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//   - kebab-case identifiers become snake_case (zygomys reads a hyphen as
//     subtraction). A hyphen only counts when it joins two identifier
//     characters, so (- a b) is untouched.
//   - ; comments become // comments.
//
// String literals and comments are copied through untouched.
func preprocessSource(source string) string {
	rw := rewriter{src: []byte(source)}
	rw.out = make([]byte, 0, len(source)+len(source)/4)
	rw.run()
	return string(rw.out)
}

type rewriter struct {
	src []byte
	out []byte
	pos int
}

func (rw *rewriter) run() {
	for rw.pos < len(rw.src) {
		c := rw.src[rw.pos]
		switch {
		case c == '"':
			rw.quoted('"', true)
		case c == '`':
			rw.quoted('`', false)
		case c == ';':
			rw.comment()
		case c == ':' && rw.peek(1) == '=':
			rw.emit(2)
		case c == ':' && isLetter(rw.peek(1)):
			rw.keyword()
		case c == '-' && rw.pos > 0 && isIdentChar(rw.src[rw.pos-1]) && isLetter(rw.peek(1)):
			rw.out = append(rw.out, '_')
			rw.pos++
		default:
			rw.emit(1)
		}
	}
}

func (rw *rewriter) peek(n int) byte {
	if rw.pos+n < len(rw.src) {
		return rw.src[rw.pos+n]
	}
	return 0
}

func (rw *rewriter) emit(n int) {
	end := min(rw.pos+n, len(rw.src))
	rw.out = append(rw.out, rw.src[rw.pos:end]...)
	rw.pos = end
}

// quoted copies a literal delimited by delim, honoring backslash escapes
// when escapes is set.
func (rw *rewriter) quoted(delim byte, escapes bool) {
	rw.emit(1)
	for rw.pos < len(rw.src) && rw.src[rw.pos] != delim {
		if escapes && rw.src[rw.pos] == '\\' {
			rw.emit(2)
			continue
		}
		rw.emit(1)
	}
	rw.emit(1)
}

func (rw *rewriter) comment() {
	for rw.pos < len(rw.src) && rw.src[rw.pos] == ';' {
		rw.pos++
	}
	rw.out = append(rw.out, '/', '/')
	for rw.pos < len(rw.src) && rw.src[rw.pos] != '\n' {
		rw.emit(1)
	}
}

func (rw *rewriter) keyword() {
	start := rw.pos + 1
	end := start
	for end < len(rw.src) && isKWChar(rw.src[end]) {
		end++
	}
	rw.out = append(rw.out, '"')
	rw.out = append(rw.out, kwPrefix...)
	rw.out = append(rw.out, rw.src[start:end]...)
	rw.out = append(rw.out, '"')
	rw.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
