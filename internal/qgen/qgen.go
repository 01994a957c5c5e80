// Package qgen generates practice questions through the completion
// oracle, returning a typed question or an error, never an in-band
// error string.
package qgen

import "context"

// Question is a generated practice question. The solving process and
// expected answer are hidden from the learner; they ground the dialogue
// engine and the judge.
type Question struct {
	// PossibleTopics are the high-level topic candidates the oracle
	// considered for the subject.
	PossibleTopics []string

	// Topic is the chosen topic.
	Topic string

	// PossibleQuestions are the candidate questions considered.
	PossibleQuestions []string

	// Text is the question delivered to the learner.
	Text string

	// SolvingProcess is the oracle's step-by-step route to the answer.
	SolvingProcess string

	// ExpectedAnswer is the canonical correct answer.
	ExpectedAnswer string
}

// Generator produces questions for a subject.
type Generator interface {
	// Generate produces one question for the given subject, steered by
	// the learner's memo.
	Generate(ctx context.Context, subject, memo string) (*Question, error)
}
