package config

const day = 24 * 3600.0

// Presets are ready-made scenarios per model. Rates are in Hz, populations
// in people; hourly sampling throughout.
var Presets = map[string]map[string]*Config{
	"sir": {
		"baseline": {
			Model: "sir", Integrator: "euler", Samples: 100, DtSecs: 3600,
			Params: map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7},
			Init:   map[string]float64{"S": 1e7 - 1, "I": 1, "R": 0},
		},
		"vital": {
			Model: "sir", Integrator: "euler", Samples: 100, DtSecs: 3600,
			Params: map[string]float64{
				"beta": 0.0002, "gamma": 0.0001, "N": 1e7,
				"Lambda": 1e-5, "mu": 1e-5,
			},
			Init: map[string]float64{"S": 1e7 - 1, "I": 1, "R": 0},
		},
		"slow-burn": {
			Model: "sir", Integrator: "euler", Samples: 2000, DtSecs: 3600,
			Params: map[string]float64{"beta": 0.00012, "gamma": 0.0001, "N": 1e7},
			Init:   map[string]float64{"S": 1e7 - 10, "I": 10, "R": 0},
		},
	},
	"seir": {
		"influenza": {
			Model: "seir", Integrator: "euler", Samples: 10000, DtSecs: 3600,
			Params: map[string]float64{
				"beta":   1 / (3 * day),
				"gamma":  1 / (14 * day),
				"a":      1 / (14 * day),
				"mu":     0,
				"lambda": 0,
				"N":      66.44e6,
			},
			Init: map[string]float64{"S": 66.44e6 - 1, "E": 0, "I": 1, "R": 0},
		},
		"short-incubation": {
			Model: "seir", Integrator: "euler", Samples: 5000, DtSecs: 3600,
			Params: map[string]float64{
				"beta":   1 / (2 * day),
				"gamma":  1 / (7 * day),
				"a":      1 / (3 * day),
				"mu":     0,
				"lambda": 0,
				"N":      1e7,
			},
			Init: map[string]float64{"S": 1e7 - 1, "E": 0, "I": 1, "R": 0},
		},
	},
	"sis": {
		"endemic": {
			Model: "sis", Integrator: "euler", Samples: 100, DtSecs: 3600,
			Params: map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7},
			Init:   map[string]float64{"S": 1e7 - 1, "I": 1},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
