package viewc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpander_Expand(t *testing.T) {
	type tc struct {
		input  string
		pretty bool
		want   string
	}

	tests := map[string]tc{
		"compact inline": {
			input: `let x = view! { text("a") };`,
			want:  `let x = iced::widget::text("a");`,
		},
		"pretty keeps host indentation": {
			input: strings.Join([]string{
				`fn view(&self) -> Element<Msg> {`,
				`    view! {`,
				`        column ![spacing: 20] { text("Hi") }`,
				`    }`,
				`}`,
			}, "\n"),
			pretty: true,
			want: strings.Join([]string{
				`fn view(&self) -> Element<Msg> {`,
				`    iced::widget::column![`,
				`        iced::widget::text("Hi"),`,
				`    ].spacing(20)`,
				`}`,
			}, "\n"),
		},
		"paren and bracket delimiters": {
			input: `a(view!(text("a")), view![text("b")])`,
			want:  `a(iced::widget::text("a"), iced::widget::text("b"))`,
		},
		"comments and strings are ignored": {
			input: strings.Join([]string{
				`// view! { broken`,
				`/* view! { also broken */`,
				`let s = "view! {";`,
				`let c = '{';`,
				`let x = view! { text("a") };`,
			}, "\n"),
			want: strings.Join([]string{
				`// view! { broken`,
				`/* view! { also broken */`,
				`let s = "view! {";`,
				`let c = '{';`,
				`let x = iced::widget::text("a");`,
			}, "\n"),
		},
		"raw strings with quotes": {
			input: "let s = r#\"say \"hi\"#;\nlet b = br\"x\";\nlet e = view! { text(\"a\") };",
			want:  "let s = r#\"say \"hi\"#;\nlet b = br\"x\";\nlet e = iced::widget::text(\"a\");",
		},
		"raw string hides an invocation": {
			input: "let s = r##\"view! { \"# }\"##; let e = view! { a };",
			want:  "let s = r##\"view! { \"# }\"##; let e = a;",
		},
		"identifiers ending in r or b": {
			input: "let bar = 1; let e = view! { text(bar) };",
			want:  "let bar = 1; let e = iced::widget::text(bar);",
		},
		"lifetimes do not open literals": {
			input: `fn f<'a>(x: &'a str) -> E<'a> { view! { text(x) } }`,
			want:  `fn f<'a>(x: &'a str) -> E<'a> { iced::widget::text(x) }`,
		},
		"other identifiers are left alone": {
			input: `preview! { a } self.view! { b } view; view!;`,
			want:  `preview! { a } self.view! { b } view; view!;`,
		},
		"multi-line literal is copied verbatim": {
			input: "fn v() {\n    let e = view! { text(\"line1\nline2\") };\n}\n",
			want:  "fn v() {\n    let e = iced::widget::text(\"line1\nline2\");\n}\n",
		},
		"pretty keeps multi-line literal verbatim": {
			input:  "fn v() {\n    view! { column { text(\"a\n  b\") } }\n}",
			pretty: true,
			want:   "fn v() {\n    iced::widget::column![\n        iced::widget::text(\"a\n  b\"),\n    ]\n}",
		},
		"no invocations": {
			input: "fn main() {}\n",
			want:  "fn main() {}\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x := NewExpander(Options{Target: Iced, Pretty: tt.pretty})
			exp, err := x.Expand("app.rs", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.Output)
		})
	}
}

func TestExpander_BlocksAndStats(t *testing.T) {
	src := "let a = view! { text(\"a\") };\nlet b = view!(column ![spacing: 2] { text(\"b\"), Card {} });\n"

	exp, err := NewExpander(DefaultOptions()).Expand("app.rs", src)
	require.NoError(t, err)
	require.Len(t, exp.Blocks, 2)

	first := exp.Blocks[0]
	assert.Equal(t, `text("a")`, strings.TrimSpace(first.Body(src)))
	assert.Equal(t, Position{File: "app.rs", Line: 1, Column: 9, Offset: 8}, first.Pos)
	assert.Equal(t, Stats{Widgets: 1, Depth: 1}, first.Stats)

	second := exp.Blocks[1]
	assert.Equal(t, 2, second.Pos.Line)
	assert.Equal(t, Stats{Widgets: 2, Components: 1, Attributes: 1, Depth: 2}, second.Stats)

	assert.Equal(t, Stats{Widgets: 3, Components: 1, Attributes: 1, Depth: 2}, exp.Stats())
	assert.Equal(t, 4, exp.Stats().Nodes())
}

func TestExpander_Errors(t *testing.T) {
	type tc struct {
		input   string
		message string
		line    int
		column  int
	}

	tests := map[string]tc{
		"error position maps to host file": {
			input:   "view! {\n  column { text(\"a\") text(\"b\") }\n}",
			message: `expected ',' before Ident "text"`,
			line:    2,
			column:  22,
		},
		"unclosed invocation": {
			input:   "fn f() { view! { column { text(\"a\") }\n",
			message: "unclosed '{' in view! invocation",
			line:    1,
			column:  16,
		},
		"empty invocation": {
			input:   "let x = view! {};",
			message: "empty markup block",
			line:    1,
			column:  16,
		},
		"second block fails": {
			input:   "view! { a }\nview! { text(\"b\") c }",
			message: `expected ',' before Ident "c"`,
			line:    2,
			column:  19,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			exp, err := NewExpander(DefaultOptions()).Expand("app.rs", tt.input)
			require.Error(t, err)
			assert.Nil(t, exp)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Message, tt.message)
			assert.Equal(t, "app.rs", verr.Pos.File)
			assert.Equal(t, tt.line, verr.Pos.Line)
			assert.Equal(t, tt.column, verr.Pos.Column)
		})
	}
}

func TestScan_RawStrings(t *testing.T) {
	src := "let s = r#\"say \"hi\"#;\nlet e = view! { text(\"a\") };\n"

	invs, err := Scan("app.rs", src, DefaultMacro)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, 2, invs[0].Pos.Line)
	assert.Equal(t, ` text("a") `, invs[0].Body(src))
}

func TestScan_CustomMacro(t *testing.T) {
	src := "ui! { a }\nview! { b }\nui!(c)"

	invs, err := Scan("main.rs", src, "ui")
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.Equal(t, " a ", invs[0].Body(src))
	assert.Equal(t, "c", invs[1].Body(src))
	assert.Equal(t, 3, invs[1].Pos.Line)
}
