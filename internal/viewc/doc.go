// Package viewc compiles declarative widget markup into nested builder-call
// expressions for a retained-mode GUI toolkit.
//
// A markup block such as
//
//	column ![spacing: 20] {
//		text("Welcome") {},
//		button("Inc") ![on_press: Msg::Increment] {},
//	}
//
// lowers to
//
//	iced::widget::column![
//		iced::widget::text("Welcome"),
//		iced::widget::button("Inc").on_press(Msg::Increment),
//	].spacing(20)
//
// The pipeline consists of:
//   - [Lexer]: tokenizes one markup block
//   - [Parser]: builds a [Markup] tree of [WidgetCall], [ComponentCall] and [Expr] nodes
//   - [Generator]: lowers the tree into an [Expression] for a [Target]
//   - [Render] / [Tokens]: print the expression or flatten it to tokens
//
// [Expander] finds view! { ... } invocations in host source files and
// substitutes their expansions.
package viewc
