package site

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter is returned when a document opens a YAML front
// matter block but never closes it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// splitFrontMatter separates `---` delimited YAML front matter from the
// markdown body. offset is the number of lines consumed before the body.
func splitFrontMatter(content []byte) (fm []byte, body []byte, offset int, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, 0, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], 2, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, 0, ErrMissingClosingDelimiter
	}

	fm = content[start : start+idx+len(nl)]
	bodyStart := start + idx + len(closeSeq)
	return fm, content[bodyStart:], bytes.Count(content[:bodyStart], []byte("\n")), nil
}

// parseFrontMatter decodes raw front matter into a map.
func parseFrontMatter(fm []byte) (map[string]any, error) {
	if len(fm) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
