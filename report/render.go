package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/alloclab/errs"
	"gopkg.in/yaml.v3"
)

// Renderer writes a Document in one output format.
type Renderer interface {
	Write(w io.Writer, d Document) error
}

// RendererFor maps a -format flag value to its Renderer.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "plain":
		return &PlainRender{}, nil
	case "table":
		return &TableRender{}, nil
	case "json":
		return &JsonRender{}, nil
	case "yaml", "yml":
		return &YAMLRender{}, nil
	default:
		return nil, errs.Warnf("unknown format %q (want plain, table, json or yaml)", format)
	}
}

type PlainRender struct{}

func (pr *PlainRender) Write(w io.Writer, d Document) error {
	_, err := io.WriteString(w, d.Plain())
	return err
}

type TableRender struct{}

func (tr *TableRender) Write(w io.Writer, d Document) error {
	header, rows := d.Table()
	_, err := io.WriteString(w, fmtTable(d.Title(), header, rows))
	return err
}

type JsonRender struct{}

func (jr *JsonRender) Write(w io.Writer, d Document) error {
	return json.NewEncoder(w).Encode(d)
}

type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, d Document) error {
	return forceReadableList(w, d)
}

// forceReadableList prints innermost sequences in flow style ([a, b]) and keeps
// outer sequences expanded.
func forceReadableList(w io.Writer, v any) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasNested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasNested = true
			}
			styleReadableSequences(c)
		}
		if !hasNested {
			n.Style = yaml.FlowStyle
		}
	}
}
