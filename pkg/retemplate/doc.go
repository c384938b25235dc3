/*
Package retemplate reverses {name} placeholder templates against text.

# Overview

Given a template such as "What a {adjective} {whatIsThis}!" and a text such
as "What a great tool!", retemplate finds every assignment of substrings to
placeholders under which the template's literal skeleton reproduces a part
of the text:

	results, err := retemplate.Match("What a {adjective} {whatIsThis}!", "What a great tool!")
	// results: [{adjective: "great", whatIsThis: "tool"}]

Because a placeholder's length is unknown, several assignments can be
valid. All of them are returned, in a deterministic order:

	results, _ := retemplate.Match("Here is a {thing} for you: {smiley}", "Here is a smiley for you: :-)")
	// results: [{thing: "smiley", smiley: ":"},
	//           {thing: "smiley", smiley: ":-"},
	//           {thing: "smiley", smiley: ":-)"}]

	best, _ := retemplate.PickLongest(results)
	// best: {thing: "smiley", smiley: ":-)"}

# How Matching Works

The template is split into literals L0..Lk and placeholders P0..Pk-1. Every
occurrence of every literal is located, overlapping occurrences included.
The enumerator then walks the cartesian product of those occurrence lists
and keeps the alignments in which each literal ends after the previous one
and starts no earlier than the previous one ends. Each placeholder takes
the text between its neighbouring literals.

A template that starts with a placeholder captures from the start of the
text. A template that ends with a placeholder yields one mapping per
possible non-empty length of the last value. A literal-only template yields
one empty mapping per occurrence.

# Case Sensitivity

Matching is case sensitive by default. WithIgnoreCase lower-cases literals
and text for the search only; values keep the casing of the text:

	results, _ := retemplate.Match("What a {adjective} {whatIsThis}!", "WHAT a great tool!",
	    retemplate.WithIgnoreCase())
	// results: [{adjective: "great", whatIsThis: "tool"}]

# Cost

Enumeration is exhaustive. Its cost grows with the product of the
occurrence counts of all literals, which is exponential in the number of
placeholders for literals that occur often (single spaces, empty literals
between adjacent placeholders). Bound it with a candidate budget or a
context:

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	results, err := retemplate.MatchContext(ctx, tmpl, text,
	    retemplate.WithMaxCandidates(1_000_000))
	if errors.Is(err, retemplate.ErrBudgetExceeded) {
	    // too many alignments to consider
	}

# Observability

Enable logging, metrics, and tracing:

	m := retemplate.NewMatcher(
	    retemplate.WithLogger(logger),
	    retemplate.WithMetrics(true),
	    retemplate.WithTracing(true),
	)

OpenTelemetry metrics: retemplate.match.calls, retemplate.match.latency_ms,
retemplate.match.results, retemplate.match.candidates, retemplate.match.errors,
retemplate.template.parses.

# Packages

  - template: parsing and forward rendering of {name} templates
  - observability: slog and OpenTelemetry helpers
  - config: file-based matcher configuration
  - store: persistence for scan results
  - filter: boolean expressions over mapping values
*/
package retemplate
