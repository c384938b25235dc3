/*
Package template parses and renders {name} placeholder templates.

# Overview

A template is literal text interspersed with named placeholders written as
{name}. Parsing splits it into literal segments and placeholder names:

	t, err := template.Parse("Here is a {thing} for you: {smiley}")
	// t.Literals():     ["Here is a ", " for you: ", ""]
	// t.Placeholders(): ["thing", "smiley"]

There is always exactly one more literal than there are placeholders. A
template that starts or ends with a placeholder has an empty first or last
literal.

# Syntax Errors

Delimiters cannot be nested or escaped. Parse rejects templates it cannot
segment unambiguously and returns a *SyntaxError that wraps ErrMalformed:

  - a '{' inside an open placeholder
  - a '}' with no open placeholder
  - a '{' that is never closed
  - an empty placeholder name ({})

# Rendering

Expand substitutes values back into the template:

	out := t.Expand(map[string]string{"thing": "smiley", "smiley": ":-)"})
	// out: "Here is a smiley for you: :-)"

Missing values are kept as-is by default. Configure behavior with options:

	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
	_, err := exp.Expand(t, map[string]string{"thing": "smiley"})
	// err: "undefined placeholder: smiley"

# Thread Safety

Template and Expander are immutable after construction and safe for
concurrent use.
*/
package template
