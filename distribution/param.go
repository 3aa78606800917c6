package distribution

import (
	G "gorgonia.org/gorgonia"
)

type paramKind int

const (
	noParam paramKind = iota
	probsParam
	logitsParam
)

func (p paramKind) String() string {
	switch p {
	case probsParam:
		return "probs"
	case logitsParam:
		return "logits"
	}
	return "none"
}

// Parametrization selects how the success probability of a
// distribution is given: either as probabilities or as log-odds. The
// zero value holds no parameter and is rejected by constructors.
type Parametrization struct {
	kind paramKind
	node *G.Node
}

// Probs parametrizes a distribution by success probabilities in [0, 1)
func Probs(probs *G.Node) Parametrization {
	return Parametrization{kind: probsParam, node: probs}
}

// Logits parametrizes a distribution by the log-odds of success,
// log(p / (1 - p))
func Logits(logits *G.Node) Parametrization {
	return Parametrization{kind: logitsParam, node: logits}
}

// Node returns the parameter node, which is nil for the zero value
func (p Parametrization) Node() *G.Node { return p.node }

func (p Parametrization) String() string { return p.kind.String() }
