// Package rpp implements the host boundary over REAPER-style project files:
// nested <BLOCK ...> sections of whitespace-separated attribute lines. The
// session loads a file into a parse tree, buffers mutations against it, and
// commits them as one atomic rewrite.
package rpp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Line is one entry inside a block: either an attribute line (Tokens set)
// or a nested block.
type Line struct {
	Tokens []string
	Block  *Block
}

// Block is one <NAME param...> section.
type Block struct {
	Name   string
	Params []string
	Lines  []Line
}

// Parse reads a project file into its root block.
func Parse(r io.Reader) (*Block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var root *Block
	var stack []*Block
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		switch {
		case strings.HasPrefix(text, "<"):
			tokens := tokenize(text[1:])
			if len(tokens) == 0 {
				return nil, fmt.Errorf("line %d: empty block header", lineNo)
			}
			block := &Block{Name: tokens[0], Params: tokens[1:]}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: multiple root blocks", lineNo)
				}
				root = block
			} else {
				parent := stack[len(stack)-1]
				parent.Lines = append(parent.Lines, Line{Block: block})
			}
			stack = append(stack, block)

		case text == ">":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: unmatched block close", lineNo)
			}
			stack = stack[:len(stack)-1]

		default:
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: attribute outside any block", lineNo)
			}
			parent := stack[len(stack)-1]
			parent.Lines = append(parent.Lines, Line{Tokens: tokenize(text)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unexpected end of file: %d unclosed block(s)", len(stack))
	}
	if root == nil {
		return nil, fmt.Errorf("empty project file")
	}
	return root, nil
}

// Write serialises a block tree back into the file format.
func Write(w io.Writer, root *Block) error {
	return writeBlock(w, root, 0)
}

func writeBlock(w io.Writer, b *Block, depth int) error {
	indent := strings.Repeat("  ", depth)
	header := b.Name
	if len(b.Params) > 0 {
		header += " " + joinTokens(b.Params)
	}
	if _, err := fmt.Fprintf(w, "%s<%s\n", indent, header); err != nil {
		return err
	}
	inner := strings.Repeat("  ", depth+1)
	for _, line := range b.Lines {
		if line.Block != nil {
			if err := writeBlock(w, line.Block, depth+1); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", inner, joinTokens(line.Tokens)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s>\n", indent)
	return err
}

// tokenize splits a line on whitespace, keeping double-quoted runs
// together. Quotes are stripped from the stored token.
func tokenize(s string) []string {
	var tokens []string
	var sb strings.Builder
	inQuote := false
	flush := func() {
		tokens = append(tokens, sb.String())
		sb.Reset()
	}
	pending := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case !inQuote && (r == ' ' || r == '\t'):
			if pending {
				flush()
				pending = false
			}
		default:
			sb.WriteRune(r)
			pending = true
		}
	}
	if pending {
		flush()
	}
	return tokens
}

func joinTokens(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		if t == "" || strings.ContainsAny(t, " \t") {
			quoted[i] = `"` + t + `"`
		} else {
			quoted[i] = t
		}
	}
	return strings.Join(quoted, " ")
}

// Clone deep-copies a block tree.
func (b *Block) Clone() *Block {
	out := &Block{
		Name:   b.Name,
		Params: append([]string(nil), b.Params...),
	}
	out.Lines = make([]Line, len(b.Lines))
	for i, line := range b.Lines {
		if line.Block != nil {
			out.Lines[i] = Line{Block: line.Block.Clone()}
		} else {
			out.Lines[i] = Line{Tokens: append([]string(nil), line.Tokens...)}
		}
	}
	return out
}

// ChildBlocks returns the nested blocks with a given name, in order.
func (b *Block) ChildBlocks(name string) []*Block {
	var out []*Block
	for _, line := range b.Lines {
		if line.Block != nil && line.Block.Name == name {
			out = append(out, line.Block)
		}
	}
	return out
}

// Attr returns the first attribute line starting with key.
func (b *Block) Attr(key string) ([]string, bool) {
	for _, line := range b.Lines {
		if line.Block == nil && len(line.Tokens) > 0 && line.Tokens[0] == key {
			return line.Tokens, true
		}
	}
	return nil, false
}

// SetAttr replaces the first attribute line with the given key, or appends
// one when the block has none.
func (b *Block) SetAttr(key string, values ...string) {
	tokens := append([]string{key}, values...)
	for i, line := range b.Lines {
		if line.Block == nil && len(line.Tokens) > 0 && line.Tokens[0] == key {
			b.Lines[i].Tokens = tokens
			return
		}
	}
	b.Lines = append(b.Lines, Line{Tokens: tokens})
}
