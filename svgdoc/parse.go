package svgdoc

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Parser parses SVG text into a document tree.
type Parser interface {
	Parse(data []byte) (*Document, error)
}

// XMLParser is the default Parser, based on the tdewolff XML lexer.
// It is stateless and safe for concurrent use.
type XMLParser struct{}

// NewParser returns the default SVG parser.
func NewParser() XMLParser {
	return XMLParser{}
}

// Parse reads an XML document and returns its element tree. Comments,
// processing instructions and DOCTYPE declarations are dropped.
func (XMLParser) Parse(data []byte) (*Document, error) {
	lexer := xml.NewLexer(parse.NewInputBytes(data))
	var stack []*Element
	doc := &Document{}
	var inPI bool
	var current *Element // element whose start tag is open
	for {
		tt, data := lexer.Next()
		switch tt {
		case xml.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("XML syntax error: %w", err)
			}
			if len(stack) > 0 {
				return nil, fmt.Errorf("XML syntax error: unclosed element <%s>", stack[len(stack)-1].Name)
			}
			if doc.Root == nil {
				return nil, errors.New("XML document has no root element")
			}
			return doc, nil
		case xml.StartTagPIToken:
			inPI = true
		case xml.StartTagClosePIToken:
			inPI = false
		case xml.StartTagToken:
			el := &Element{Name: string(lexer.Text())}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("XML syntax error: second root element <%s>", el.Name)
				}
				doc.Root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			current = el
		case xml.AttributeToken:
			if inPI || current == nil {
				continue
			}
			current.Attrs = append(current.Attrs, Attr{
				Name:  string(lexer.Text()),
				Value: attrValue(lexer.AttrVal()),
			})
		case xml.StartTagCloseToken:
			current = nil
		case xml.StartTagCloseVoidToken:
			current = nil
			stack = stack[:len(stack)-1]
		case xml.EndTagToken:
			name := string(lexer.Text())
			if len(stack) == 0 || stack[len(stack)-1].Name != name {
				return nil, fmt.Errorf("XML syntax error: unexpected end tag </%s>", name)
			}
			stack = stack[:len(stack)-1]
		case xml.TextToken:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += html.UnescapeString(string(data))
			}
		case xml.CDATAToken:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(lexer.Text())
			}
		}
	}
}

// attrValue strips the quotes of a raw attribute value and resolves
// character and entity references.
func attrValue(raw []byte) string {
	v := string(raw)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	if strings.IndexByte(v, '&') < 0 {
		return v
	}
	return html.UnescapeString(v)
}
