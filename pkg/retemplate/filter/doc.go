/*
Package filter selects mappings with small boolean expressions over their
placeholder values.

# Overview

A filter is compiled once and applied to each mapping a match produces.
Placeholder names are variables; their values are the captured text:

	f, err := filter.Compile("level == 'ERROR' and code >= 500")
	if err != nil {
	    return err
	}
	kept := f.Apply(results)

# Expression Syntax

	<expr> := <expr> 'or' <expr>
	        | <expr> 'and' <expr>
	        | 'not' <expr>
	        | '!' <expr>
	        | <value> <op> <value>
	        | <value>

	<op>    := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'contains'
	<value> := 'string' | "string" | number | true | false | null | name

"or" binds loosest, then "and", then the "not" prefix. Operators inside
quoted strings are ignored.

# Variables

Every placeholder of the mapping is a variable holding its value. The
variable _score holds the mapping's score (total value length). A name
the mapping does not have resolves to null.

# Comparison

== and != compare the text form of both sides; null compares equal to the empty string.
<, >, <= and >= compare numerically and are false when either side is not
a number. contains tests for a substring.

Register more operators with WithOperator:

	f, err := filter.Compile("msg matches '^disk'",
	    filter.WithOperator("matches", func(left, right any) bool {
	        ok, _ := regexp.MatchString(filter.Text(right), filter.Text(left))
	        return ok
	    }),
	)

# Truthiness

A bare value is true unless it is null, false, the empty string, or zero.
*/
package filter
