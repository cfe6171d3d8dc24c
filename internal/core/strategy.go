package core

// A Strategy selects how a node evaluates (and assigns) itself. Nodes start with
// StrategyGeneric and switch to a shape-specific strategy once, the switch is never
// reverted except by Reset.
type Strategy uint32

const (
	StrategyGeneric Strategy = iota

	//sequences
	StrategyNoop
	StrategyDelegate
	StrategySequence

	//name references & parameters
	StrategyBinding

	//call sites
	StrategySpecialForm
	StrategyPlainCall
	StrategyTailDeferringCall
	StrategyTailCheckingCall

	//operator sites
	StrategyCachedOperator
	StrategyFullDispatch
)

var strategyNames = [...]string{
	StrategyGeneric:           "generic",
	StrategyNoop:              "noop",
	StrategyDelegate:          "delegate",
	StrategySequence:          "sequence",
	StrategyBinding:           "binding",
	StrategySpecialForm:       "special-form",
	StrategyPlainCall:         "plain-call",
	StrategyTailDeferringCall: "tail-deferring-call",
	StrategyTailCheckingCall:  "tail-checking-call",
	StrategyCachedOperator:    "cached-operator",
	StrategyFullDispatch:      "full-dispatch",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}
