package ga

import "cflpGA/internal/opt"

func toResult(best *opt.Solution, found, history []opt.Solution, evals, gens int, meta map[string]any) opt.Result {
	res := opt.Result{
		Found:       found,
		History:     history,
		Evaluations: evals,
		Generations: gens,
		Meta:        meta,
	}
	if best != nil {
		b := best.Clone()
		res.Best = &b
	}
	if res.Found == nil {
		res.Found = []opt.Solution{}
	}
	if res.History == nil {
		res.History = []opt.Solution{}
	}
	return res
}
