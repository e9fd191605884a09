package viewc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, input string, opts Options) string {
	t.Helper()
	out, err := Compile("test.mkp", input, opts)
	require.NoError(t, err)
	return out
}

func TestGenerator_WorkedExample(t *testing.T) {
	want := `iced::widget::column![` +
		`iced::widget::text("Welcome"), ` +
		`iced::widget::row![` +
		`iced::widget::button("Inc").on_press(Msg::Increment), ` +
		`iced::widget::button("Dec").on_press(Msg::Decrement)` +
		`].spacing(10)` +
		`].spacing(20).padding(40)`

	assert.Equal(t, want, compile(t, workedExample, DefaultOptions()))
}

func TestGenerator_WorkedExamplePretty(t *testing.T) {
	want := strings.Join([]string{
		`iced::widget::column![`,
		`    iced::widget::text("Welcome"),`,
		`    iced::widget::row![`,
		`        iced::widget::button("Inc").on_press(Msg::Increment),`,
		`        iced::widget::button("Dec").on_press(Msg::Decrement),`,
		`    ].spacing(10),`,
		`].spacing(20).padding(40)`,
	}, "\n")

	assert.Equal(t, want, compile(t, workedExample, Options{Target: Iced, Pretty: true}))
}

func TestGenerator_Lowering(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"attribute order a, b": {
			input: `widget![a: 1, b: 2]{}`,
			want:  `iced::widget::widget().a(1).b(2)`,
		},
		"attribute order b, a": {
			input: `widget![b: 2, a: 1]{}`,
			want:  `iced::widget::widget().b(2).a(1)`,
		},
		"duplicate attributes are kept": {
			input: `w ![a: 1, a: 2]`,
			want:  `iced::widget::w().a(1).a(2)`,
		},
		"no args still calls": {
			input: `horizontal_space {}`,
			want:  `iced::widget::horizontal_space()`,
		},
		"args only": {
			input: `text("a", 2)`,
			want:  `iced::widget::text("a", 2)`,
		},
		"empty block is no children": {
			input: `text("a") {}`,
			want:  `iced::widget::text("a")`,
		},
		"args lead children": {
			input: `scrollable(id) { text("a") }`,
			want:  `iced::widget::scrollable![id, iced::widget::text("a")]`,
		},
		"children before attributes": {
			input: `row ![spacing: 4] { a, b }`,
			want:  `iced::widget::row![a, b].spacing(4)`,
		},
		"component is not qualified": {
			input: `Counter(5) ![step: 2] {}`,
			want:  `Counter(5).step(2)`,
		},
		"component path with children": {
			input: `crate::ui::card ![title: "T"] { "body" }`,
			want:  `crate::ui::card!["body"].title("T")`,
		},
		"expression root": {
			input: `self.cached.clone().into()`,
			want:  `self.cached.clone().into()`,
		},
		"expression child passthrough": {
			input: "column { a  +  b, text(\"x\").size(12), |m| { m.0 } }",
			want:  "iced::widget::column![a  +  b, text(\"x\").size(12), |m| { m.0 }]",
		},
		"raw attribute values": {
			input: `button("Go") ![on_press: Msg::Go(id, "x"), style: |t| theme::primary(t, [1, 2])]`,
			want:  `iced::widget::button("Go").on_press(Msg::Go(id, "x")).style(|t| theme::primary(t, [1, 2]))`,
		},
		"lifetime in attribute value": {
			input: `column { text(x) ![style: |t: &'static Theme| style(t)] }`,
			want:  `iced::widget::column![iced::widget::text(x).style(|t: &'static Theme| style(t))]`,
		},
		"turbofish in attribute value": {
			input: `w ![data: HashMap::<K, V>::new(), b: 1]`,
			want:  `iced::widget::w().data(HashMap::<K, V>::new()).b(1)`,
		},
		"keyword block is an expression child": {
			input: `column { unsafe { x }, loop { break } }`,
			want:  `iced::widget::column![unsafe { x }, loop { break }]`,
		},
		"three levels": {
			input: `a ![x: 1] { b ![y: 2] { c ![z: 3] { leaf } } }`,
			want:  `iced::widget::a![iced::widget::b![iced::widget::c![leaf].z(3)].y(2)].x(1)`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, tt.input, DefaultOptions()))
		})
	}
}

func TestGenerator_Targets(t *testing.T) {
	slice := Target{
		Name:            "ui",
		WidgetQualifier: "ui.",
		Collection:      CollectionSlice,
		ElementType:     "ui.Element",
		Indent:          "\t",
	}

	type tc struct {
		target Target
		pretty bool
		want   string
	}

	input := `column ![spacing: 20] { text("a"), Card(x) {} }`

	tests := map[string]tc{
		"iced": {
			target: Iced,
			want:   `iced::widget::column![iced::widget::text("a"), Card(x)].spacing(20)`,
		},
		"go variadic": {
			target: Go,
			want:   `widget.column(widget.text("a"), Card(x)).spacing(20)`,
		},
		"go variadic pretty": {
			target: Go,
			pretty: true,
			want:   "widget.column(\n\twidget.text(\"a\"),\n\tCard(x),\n).spacing(20)",
		},
		"slice": {
			target: slice,
			want:   `ui.column([]ui.Element{ui.text("a"), Card(x)}).spacing(20)`,
		},
		"slice pretty": {
			target: slice,
			pretty: true,
			want:   "ui.column([]ui.Element{\n\tui.text(\"a\"),\n\tCard(x),\n}).spacing(20)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, input, Options{Target: tt.target, Pretty: tt.pretty}))
		})
	}
}

func TestGenerator_Tokens(t *testing.T) {
	m := mustParse(t, `row ![spacing: 4] { label, w() }`)
	toks := Tokens(NewGenerator(Iced).Generate(m))

	want := []OutToken{
		{Kind: OutIdent, Text: "iced::widget::row"},
		{Kind: OutPunct, Text: "!"},
		{Kind: OutPunct, Text: "["},
		{Kind: OutRaw, Text: "label"},
		{Kind: OutPunct, Text: ","},
		{Kind: OutIdent, Text: "iced::widget::w"},
		{Kind: OutPunct, Text: "("},
		{Kind: OutPunct, Text: ")"},
		{Kind: OutPunct, Text: "]"},
		{Kind: OutPunct, Text: "."},
		{Kind: OutIdent, Text: "spacing"},
		{Kind: OutPunct, Text: "("},
		{Kind: OutRaw, Text: "4"},
		{Kind: OutPunct, Text: ")"},
	}
	assert.Equal(t, want, toks)
}

func TestGenerator_TokensMatchRender(t *testing.T) {
	m := mustParse(t, workedExample)
	expr := NewGenerator(Iced).Generate(m)

	var sb strings.Builder
	for _, tok := range Tokens(expr) {
		sb.WriteString(tok.Text)
	}
	compact := strings.ReplaceAll(Render(expr, Style{}), ", ", ",")
	assert.Equal(t, compact, sb.String())
}

func TestGenerator_ExpressionChildPosition(t *testing.T) {
	m := mustParse(t, `column { text("a"), self.footer_text().into(), "tail" }`)
	expr := NewGenerator(Iced).Generate(m)

	call, ok := expr.(*Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	assert.Equal(t, &Raw{Code: `self.footer_text().into()`}, call.Args[1])
	assert.Equal(t, &Raw{Code: `"tail"`}, call.Args[2])
}

func TestRender_Prefix(t *testing.T) {
	expr := &Call{
		Callee:     "a",
		Macro:      true,
		Collection: true,
		Args:       []Expression{&Raw{Code: "\"x\ny\""}, &Raw{Code: "b"}},
	}

	pretty := Render(expr, Style{Pretty: true, Indent: "    ", Prefix: "\t"})
	assert.Equal(t, "a![\n\t    \"x\ny\",\n\t    b,\n\t]", pretty)

	compact := Render(expr, Style{Prefix: "\t"})
	assert.Equal(t, "a![\"x\ny\", b]", compact)
}

func TestTarget_Validate(t *testing.T) {
	require.NoError(t, Iced.Validate())
	require.NoError(t, Go.Validate())

	err := Target{Name: "x", Collection: CollectionSlice}.Validate()
	require.ErrorIs(t, err, ErrMissingElemType)

	err = Target{Name: "x", Collection: "tuple"}.Validate()
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestLookupTarget(t *testing.T) {
	got, err := LookupTarget("go")
	require.NoError(t, err)
	assert.Equal(t, Go, got)

	_, err = LookupTarget("qt")
	require.ErrorIs(t, err, ErrUnknownTarget)
	assert.Equal(t, []string{"go", "iced"}, TargetNames())
}
