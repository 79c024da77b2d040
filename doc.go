// Package rpn implements an arbitrary-precision decimal calculator for infix
// expressions.
//
// Evaluation happens in three stages. Normalize turns raw text into a stream
// of tokens, ToRPN reorders the tokens into Reverse Polish Notation with the
// shunting-yard algorithm, and Eval runs the RPN against a stack of decimals.
// Each stage is a pure function of its input plus a Registry of operator and
// function strategies, which is fixed when a Calculator is created.
//
// Every result an operator or function produces is rounded to a single Policy
// before it is used again, so "1/3*3" with two decimal places is 0.99, not 1.
// The default policy rounds half to even.
//
// Numerals may contain grouping spaces: "12 000 + 15" is 12015. Both "." and
// "," are decimal separators, except that a comma inside the argument list of
// a function call separates arguments: "max(1,5)" is max(1, 5), while
// "1,5 + 2" is 3.5.
package rpn
