// This file defines element constructors for the el package.
package el

import "github.com/vango-dev/renditional/pkg/render"

// Element returns an element with an arbitrary tag. Mixed-case names are
// hyphenated: Element("myWidget") creates <my-widget>.
func Element(name string, children ...Template) Effect {
	return render.El(name)(children...)
}
func Html(children ...Template) Effect {
	return render.Element("html", children...)
}
func Head(children ...Template) Effect {
	return render.Element("head", children...)
}
func Body(children ...Template) Effect {
	return render.Element("body", children...)
}
func Title(children ...Template) Effect {
	return render.Element("title", children...)
}
func Header(children ...Template) Effect {
	return render.Element("header", children...)
}
func Footer(children ...Template) Effect {
	return render.Element("footer", children...)
}
func Main(children ...Template) Effect {
	return render.Element("main", children...)
}
func Nav(children ...Template) Effect {
	return render.Element("nav", children...)
}
func SectionEl(children ...Template) Effect {
	return render.Element("section", children...)
}
func Article(children ...Template) Effect {
	return render.Element("article", children...)
}
func Aside(children ...Template) Effect {
	return render.Element("aside", children...)
}
func Div(children ...Template) Effect {
	return render.Element("div", children...)
}
func Span(children ...Template) Effect {
	return render.Element("span", children...)
}
func P(children ...Template) Effect {
	return render.Element("p", children...)
}
func H1(children ...Template) Effect {
	return render.Element("h1", children...)
}
func H2(children ...Template) Effect {
	return render.Element("h2", children...)
}
func H3(children ...Template) Effect {
	return render.Element("h3", children...)
}
func H4(children ...Template) Effect {
	return render.Element("h4", children...)
}
func H5(children ...Template) Effect {
	return render.Element("h5", children...)
}
func H6(children ...Template) Effect {
	return render.Element("h6", children...)
}
func Ul(children ...Template) Effect {
	return render.Element("ul", children...)
}
func Ol(children ...Template) Effect {
	return render.Element("ol", children...)
}
func Li(children ...Template) Effect {
	return render.Element("li", children...)
}
func Dl(children ...Template) Effect {
	return render.Element("dl", children...)
}
func Dt(children ...Template) Effect {
	return render.Element("dt", children...)
}
func Dd(children ...Template) Effect {
	return render.Element("dd", children...)
}
func Pre(children ...Template) Effect {
	return render.Element("pre", children...)
}
func Code(children ...Template) Effect {
	return render.Element("code", children...)
}
func Blockquote(children ...Template) Effect {
	return render.Element("blockquote", children...)
}
func Em(children ...Template) Effect {
	return render.Element("em", children...)
}
func Strong(children ...Template) Effect {
	return render.Element("strong", children...)
}
func Small(children ...Template) Effect {
	return render.Element("small", children...)
}
func A(children ...Template) Effect {
	return render.Element("a", children...)
}
func Img(children ...Template) Effect {
	return render.Element("img", children...)
}
func Br(children ...Template) Effect {
	return render.Element("br", children...)
}
func Hr(children ...Template) Effect {
	return render.Element("hr", children...)
}
func Button(children ...Template) Effect {
	return render.Element("button", children...)
}
func Form(children ...Template) Effect {
	return render.Element("form", children...)
}
func Input(children ...Template) Effect {
	return render.Element("input", children...)
}
func Label(children ...Template) Effect {
	return render.Element("label", children...)
}
func Select(children ...Template) Effect {
	return render.Element("select", children...)
}
func OptionEl(children ...Template) Effect {
	return render.Element("option", children...)
}
func Textarea(children ...Template) Effect {
	return render.Element("textarea", children...)
}
func Fieldset(children ...Template) Effect {
	return render.Element("fieldset", children...)
}
func Legend(children ...Template) Effect {
	return render.Element("legend", children...)
}
func Table(children ...Template) Effect {
	return render.Element("table", children...)
}
func Thead(children ...Template) Effect {
	return render.Element("thead", children...)
}
func Tbody(children ...Template) Effect {
	return render.Element("tbody", children...)
}
func Tr(children ...Template) Effect {
	return render.Element("tr", children...)
}
func Th(children ...Template) Effect {
	return render.Element("th", children...)
}
func Td(children ...Template) Effect {
	return render.Element("td", children...)
}
func Details(children ...Template) Effect {
	return render.Element("details", children...)
}
func Summary(children ...Template) Effect {
	return render.Element("summary", children...)
}
