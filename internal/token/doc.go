// Package token defines lexical token kinds and trivia for JavaScript sources.
// Invariants:
//   - Token.Text is the exact source slice for lexed tokens.
//   - Token.Span matches Text exactly (Start..End) unless the token is
//     synthetic (Span.File == source.NoFile).
//   - Whitespace and comments are never tokens; they ride along as the
//     Leading trivia of the next significant token.
//   - Contextual words (let, async, await, of, from, as, get, set, static)
//     are identifiers. Only reserved words get keyword kinds.
package token
