package domain

import (
	"fmt"

	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// ErrTieBreakRequired reports a tied tally under a policy the engine cannot
// resolve internally (revote, duel, random). The TallyResult accompanying it
// carries the tied set; an external tie-break round must decide. Surfaced as
// fatal so the orchestrator halts the day instead of guessing.
var ErrTieBreakRequired = fmt.Errorf("%w: tally tied, configured tie-break must run externally", apperr.ErrFatal)
