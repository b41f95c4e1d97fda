package simplex

import "golang.org/x/exp/rand"

// Status is the stable, wire-contract status code returned in a
// SolveResult. Numeric values are preserved for interop with an existing
// API surface; gaps in the sequence are reserved.
type Status int

const (
	Optimal        Status = 2
	Infeasible     Status = 3
	Unbounded      Status = 5
	IterationLimit Status = 7
	TimeLimit      Status = 9
	Interrupted    Status = 11
	NumericError   Status = 12
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case IterationLimit:
		return "IterationLimit"
	case TimeLimit:
		return "TimeLimit"
	case Interrupted:
		return "Interrupted"
	case NumericError:
		return "NumericError"
	default:
		return "Status(unknown)"
	}
}

// VarStatus discriminates how a variable participates in the current
// basis. Non-negative values are basic at that row index; the named
// constants are the non-basic discriminants.
type VarStatus int

const (
	AtLower    VarStatus = -1
	AtUpper    VarStatus = -2
	SuperBasic VarStatus = -3
	Fixed      VarStatus = -4
	Eliminated VarStatus = -5
)

// isBasic reports whether s denotes a basic row assignment.
func (s VarStatus) isBasic() bool { return int(s) >= 0 }

func (s VarStatus) String() string {
	switch s {
	case AtLower:
		return "AtLower"
	case AtUpper:
		return "AtUpper"
	case SuperBasic:
		return "SuperBasic"
	case Fixed:
		return "Fixed"
	case Eliminated:
		return "Eliminated"
	default:
		if int(s) >= 0 {
			return "Basic"
		}
		return "VarStatus(unknown)"
	}
}

// VType is the variable's declared kind. The LP core ignores integrality;
// only Binary's implicit [0,1] bound enforcement is observed here.
type VType byte

const (
	Continuous VType = 'C'
	Binary     VType = 'B'
	Integer    VType = 'I'
	SemiCont   VType = 'S'
	Network    VType = 'N'
)

// Sense is a constraint row's relation, pre-canonicalization.
type Sense byte

const (
	LessEqual    Sense = '<'
	GreaterEqual Sense = '>'
	Equal        Sense = '='
)

// PricingRule selects the entering-variable rule used when choosing which
// non-basic variable enters the basis.
type PricingRule int

const (
	// Dantzig selects the most-improving reduced cost (the only rule
	// implemented by this core).
	Dantzig PricingRule = iota
	// SteepestEdgeReserved names a reserved future pricing rule; Config
	// validation rejects it with KindInvalidInput until it is implemented.
	SteepestEdgeReserved
)

// TieBreak selects how pricing and the ratio test break ties.
type TieBreak int

const (
	// ByIndex breaks ties by smallest variable/row index (Bland-style).
	ByIndex TieBreak = iota
)

// Level is a log severity passed to Config.Logger.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config is the immutable set of tolerances, limits, and policy choices
// passed in at solver entry. The zero Config is not valid; use
// DefaultConfig to get sane defaults and override fields.
type Config struct {
	FeasTol                  float64
	OptTol                   float64
	PivotTol                 float64
	MarkowitzTau             float64
	MaxEta                   int
	RefactorInterval         int
	DegenerateCycleThreshold int
	IterLimit                int
	TimeLimitSeconds         float64
	PricingRule              PricingRule
	TieBreak                 TieBreak
	AllowPhase1              bool

	// EtaCondTol bounds the eta file's accumulated condition estimate
	// before a Recommended refactor is signaled.
	EtaCondTol float64
	// DropTol is the explicit-zero drop tolerance used by LU elimination
	// and eta construction.
	DropTol float64

	// Terminate is polled at each iteration boundary. A nil Terminate is
	// treated as "never requested".
	Terminate *bool
	// Logger is the sink behind Config.log; a nil Logger disables logging.
	// The solve path makes no log calls, so Logger receives no messages.
	Logger func(level Level, msg string)
	// Rand is reserved for a future randomized tie-breaking or restart
	// strategy. Bland's rule itself is strictly index-ordered and
	// deterministic by construction — a randomized perturbation would
	// undermine its anti-cycling guarantee — so the current solve path
	// never reads this field.
	Rand *rand.Rand
}

// DefaultConfig returns a reasonable set of defaults for all fields.
func DefaultConfig() Config {
	return Config{
		FeasTol:                  1e-6,
		OptTol:                   1e-6,
		PivotTol:                 1e-9,
		MarkowitzTau:             0.1,
		MaxEta:                   250,
		RefactorInterval:         100,
		DegenerateCycleThreshold: 30,
		IterLimit:                20000,
		TimeLimitSeconds:         30,
		PricingRule:              Dantzig,
		TieBreak:                 ByIndex,
		AllowPhase1:              true,
		EtaCondTol:               1e8,
		DropTol:                  1e-20,
		Rand:                     rand.New(rand.NewSource(1)),
	}
}

func (c Config) validate() error {
	if c.PricingRule != Dantzig {
		return newSolveError(KindInvalidInput, -1, "pricing rule %v not implemented", c.PricingRule)
	}
	if c.MarkowitzTau < 0.01 || c.MarkowitzTau > 1.0 {
		return newSolveError(KindInvalidInput, -1, "markowitz_tau %.4g out of [0.01,1.0]", c.MarkowitzTau)
	}
	if c.FeasTol <= 0 || c.OptTol <= 0 || c.PivotTol <= 0 {
		return newSolveError(KindInvalidInput, -1, "tolerances must be positive")
	}
	return nil
}

func (c Config) log(level Level, format string, args ...interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger(level, sprintf(format, args...))
}

func (c Config) shouldTerminate() bool {
	return c.Terminate != nil && *c.Terminate
}

// ModelView is the immutable reference to the model the caller hands the
// solver at entry; Solve does not modify it. Logical variables occupy
// indices [NumVars, NumVars+NumRows); their columns are implicit unit
// columns and must not be stored in Matrix. Their Obj entries are used as
// given, while Solve replaces their LB/UB entries with the bounds implied
// by each row's sense: [0, +inf) for '<' and '>' rows, [0, 0] for '='.
type ModelView struct {
	NumVars int
	NumRows int

	Matrix *SparseMatrix // NumRows x NumVars, structural columns only

	LB, UB, Obj []float64 // length NumVars+NumRows
	VType       []byte    // length NumVars, VType bytes
	Sense       []byte    // length NumRows, Sense bytes
	RHS         []float64 // length NumRows
}

// PlusInf and MinusInf are the sentinel bound values used to represent an
// unbounded side of a variable or row.
const (
	PlusInf  = 1e100
	MinusInf = -1e100
)

// SolveResult is the outcome of a solve.
type SolveResult struct {
	Status    Status
	ObjValue  float64
	X         []float64 // length NumVars
	Slack     []float64 // length NumRows
	Pi        []float64 // length NumRows, dual values
	RC        []float64 // length NumVars, reduced costs
	Iterations int
	PhaseCounts struct {
		Phase1 int
		Phase2 int
	}
	FinalSnapshot *BasisSnapshot
	Err           *SolveError
}
