// Package pypage renders text templates that embed code and control-flow tags.
//
// Code blocks are delimited by {{ and }}, tags by {% and %}:
//
//	Hello {{ name }}!
//	{% for i in range(3) %}{{ i }}{% %}
//
// # Basic Usage
//
//	engine := pypage.MustNew()
//	result, err := engine.Execute(ctx, "Hello {{ name }}!", map[string]any{
//	    "name": "World",
//	})
//	// result: "Hello World!"
//
// # Code Blocks
//
// A body without a newline or ';' is an expression; its value is written to
// the output. Any other body is a statement block whose output is whatever it
// passes to write():
//
//	{{ x = 3; write(x * 2) }}
//
// All blocks share one Environment, so names assigned by one block are
// visible to everything executed after it. With the default Starlark
// evaluator a function keeps the globals of the block that defined it:
//
//	{{ x = 1; }}{{
//	def f():
//	    return x
//	}}{{ x = 5; }}{{ f() }}
//
// renders 1, not 5. Pass the value as an argument, or keep it in a list or
// dict and mutate that, to share it with earlier functions.
//
// Starlark print() output goes to the engine's logger at Info level. Route
// it elsewhere with WithEvaluator(NewStarlarkEvaluator(logger, WithPrintFunc(fn))).
//
// # Tags
//
//	{% for x, y in pairs %} ... {% %}    loop; x and y are restored afterwards
//	{% while cond %} ... {% %}           loop while cond is truthy
//	{% while dofirst cond slow %} ...    body runs once first; no time limit
//	{% comment %} ... {% %}              parsed but never executed
//
// Every tag is closed by an empty tag {% %} and must fit on one line.
// Braces are escaped with \{ and \}.
//
// # Evaluators
//
// The engine itself evaluates nothing. Code is handed to an Evaluator; the
// default is a Starlark interpreter. Supply another with WithEvaluator.
//
// # Errors
//
// Malformed templates fail at Parse with a *SyntaxError (wrapped in a
// cuserr.CustomError carrying line/column metadata). Errors raised by the
// Evaluator are returned unchanged.
package pypage
