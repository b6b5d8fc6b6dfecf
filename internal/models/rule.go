package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchField string

const (
	FieldDescription      MatchField = "DESCRIPTION"
	FieldSenderOrReceiver MatchField = "SENDER_OR_RECEIVER"
)

type Matcher string

const (
	MatcherContains   Matcher = "CONTAINS"
	MatcherEquals     Matcher = "EQUALS"
	MatcherStartsWith Matcher = "STARTS_WITH"
	MatcherEndsWith   Matcher = "ENDS_WITH"
)

type RuleLogic string

const (
	LogicAny RuleLogic = "ANY"
	LogicAll RuleLogic = "ALL"
)

// CategoryRule assigns a category to a transaction when its keyword matches
// the chosen field. Higher priority wins; ties resolve in insertion order.
// Logic is stored and served but not evaluated: rules carry a single keyword
// today, so ANY vs ALL has no observable effect.
type CategoryRule struct {
	ID       uuid.UUID  `db:"id"`
	Field    MatchField `db:"field"`
	Matcher  Matcher    `db:"matcher"`
	Keyword  string     `db:"keyword"`
	Category string     `db:"category"`
	Priority int        `db:"priority"`
	Logic    RuleLogic  `db:"logic"`
	CreatedAt time.Time `db:"created_at"`
}

// CustomPattern is a user-supplied regular expression tried before the
// builtin patterns. Position gives an explicit, reproducible ordering.
type CustomPattern struct {
	ID         uuid.UUID `db:"id"`
	Expression string    `db:"expression"`
	Position   int       `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}
