package extraction

import (
	"errors"
	"fmt"
)

// ErrPositionalRule is matched by every PositionalRuleError.
var ErrPositionalRule = errors.New("positional rule out of range")

// PositionalRuleError reports a rule that needs a line index the card does not have.
type PositionalRuleError struct {
	Rule      string
	LineIndex int // line that triggered the rule
	Want      int // index the rule reads
	LineCount int
}

func (e *PositionalRuleError) Error() string {
	return fmt.Sprintf("%s rule on line %d needs line %d but only %d lines were recognized",
		e.Rule, e.LineIndex, e.Want, e.LineCount)
}

func (e *PositionalRuleError) Is(target error) bool {
	return target == ErrPositionalRule
}
