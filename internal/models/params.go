package models

import "github.com/san-kum/episim/internal/epi"

// requireParams checks that every named rate is present. A required
// epidemiological rate is never defaulted: a silent zero would produce a
// scientifically wrong trajectory, so construction fails loudly instead.
func requireParams(model string, params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return &epi.KeyError{Model: model, Key: k, Wrapped: epi.ErrMissingParam}
		}
	}
	return nil
}

func requireCompartments(model string, init map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := init[k]; !ok {
			return &epi.KeyError{Model: model, Key: k, Wrapped: epi.ErrMissingCompartment}
		}
	}
	return nil
}
