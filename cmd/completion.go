package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the fxr command line for shell completion.
func Completion() *complete.Command {
	methods := predict.Set{"average", "fifo"}
	periods := predict.Set{"day", "week", "month", "quarter", "year"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"l":    predict.Files("*.jsonl"),
			"dsn":  predict.Files("*"),
			"url":  predict.Something,
			"path": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"report": {
				Flags: map[string]complete.Predictor{
					"c":      predict.Something,
					"s":      predict.Something,
					"d":      predict.Something,
					"period": periods,
					"method": methods,
					"rate":   predict.Something,
					"format": predict.Set{"md", "json", "html"},
					"o":      predict.Files("*"),
				},
			},
			"check":  {},
			"export": {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"serve":  {Flags: map[string]complete.Predictor{"addr": predict.Something}},
		},
	}
}
