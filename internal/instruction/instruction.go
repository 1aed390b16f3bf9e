// Package instruction は定義済みのシステムインストラクションと、
// リクエストに適用するインストラクションを決定するルールを提供します。
package instruction

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// None はシステムインストラクションを明示的に使用しないことを表す識別子です。
const None = "none"

//go:embed texts/*.txt
var textFS embed.FS

// Source は解決されたインストラクションの出どころを表します。
type Source int

const (
	SourceNone Source = iota
	SourceCustom
	SourcePredefined
)

func (s Source) String() string {
	switch s {
	case SourceCustom:
		return "custom"
	case SourcePredefined:
		return "predefined"
	default:
		return "none"
	}
}

// Table は識別子からインストラクション本文への読み取り専用のマッピングです。
// 構築後は変更されないため、並行に利用できます。
type Table struct {
	texts map[string]string
	ids   []string
}

var defaultTable = mustLoad(textFS, "texts")

// Default は埋め込まれたテキストから構築されたテーブルを返します。
func Default() *Table {
	return defaultTable
}

// Load は dir 内の *.txt ファイルからテーブルを構築します。拡張子を除いたファイル名が識別子になります。
// "none" は常に存在し、本文は空です。
func Load(fsys fs.FS, dir string) (*Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading instruction dir %q: %w", dir, err)
	}

	t := &Table{texts: map[string]string{None: ""}}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".txt" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".txt")
		if id == None {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading instruction %q: %w", id, err)
		}
		t.texts[id] = string(b)
	}

	for id := range t.texts {
		t.ids = append(t.ids, id)
	}
	slices.Sort(t.ids)
	return t, nil
}

func mustLoad(fsys fs.FS, dir string) *Table {
	t, err := Load(fsys, dir)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup は id に対応する本文を返します。"none" は空の本文として見つかった扱いになります。
func (t *Table) Lookup(id string) (string, bool) {
	text, ok := t.texts[id]
	return text, ok
}

// IDs は "none" を含む既知の識別子をソート済みで返します。
func (t *Table) IDs() []string {
	return slices.Clone(t.ids)
}

// Resolve はリクエストに適用するインストラクションを決定します。
// 空白以外を含むカスタム本文が最優先で、次に "none" 以外の既知の識別子、
// どちらも無ければインストラクションは適用されず空文字列を返します。
func (t *Table) Resolve(custom, id string) (string, Source) {
	if strings.TrimSpace(custom) != "" {
		return custom, SourceCustom
	}
	if id != "" && id != None {
		if text, ok := t.texts[id]; ok && text != "" {
			return text, SourcePredefined
		}
	}
	return "", SourceNone
}
