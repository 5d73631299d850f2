package pylontech

// Module counts supported by a single console: up to eight units daisy-chained
// behind the one holding the RS232 adapter.
const (
	MinModules = 1
	MaxModules = 8
)

// Field positions inside one module's 15-token record in the "pwr" response.
// Offsets are relative to the module's record start.
const (
	recordStride      = 15
	voltageOffset     = 1
	currentOffset     = 2
	temperatureOffset = 3
	socOffset         = 8
)

// ModuleTelemetry holds the decoded readings of one battery module.
// Values are the device's raw integer tokens; the console applies no unit
// scaling and neither does this package.
type ModuleTelemetry struct {
	StateOfCharge float64 `json:"stateOfCharge"`
	Voltage       float64 `json:"voltage"`
	Current       float64 `json:"current"`
	Temperature   float64 `json:"temperature"`
}

// Report is the telemetry of a battery stack, index-aligned to physical
// chain position. Index 0 is the module holding the adapter.
type Report []ModuleTelemetry

// extractTokens returns every maximal run of decimal digits in raw, in
// left-to-right order. Everything else (command echo, labels, whitespace)
// is separator noise.
func extractTokens(raw []byte) []int64 {
	var tokens []int64
	var value int64
	inRun := false
	for _, b := range raw {
		if b >= '0' && b <= '9' {
			value = value*10 + int64(b-'0')
			inRun = true
			continue
		}
		if inRun {
			tokens = append(tokens, value)
			value = 0
			inRun = false
		}
	}
	if inRun {
		tokens = append(tokens, value)
	}
	return tokens
}

// tokensRequired returns the minimum token count needed to decode modules
// records: the highest offset used is socOffset + recordStride*(modules-1).
func tokensRequired(modules int) int {
	return recordStride*(modules-1) + socOffset + 1
}

// ParseReport decodes one raw "pwr" response into per-module telemetry for
// the given module count. A count outside 1..8 or a response with too few
// numeric tokens yields a *DecodeError; partial records are never returned.
func ParseReport(raw []byte, modules int) (Report, error) {
	tokens, err := checkTokens(raw, modules)
	if err != nil {
		return nil, err
	}

	report := make(Report, modules)
	for i := range report {
		base := recordStride * i
		report[i] = ModuleTelemetry{
			StateOfCharge: float64(tokens[base+socOffset]),
			Voltage:       float64(tokens[base+voltageOffset]),
			Current:       float64(tokens[base+currentOffset]),
			Temperature:   float64(tokens[base+temperatureOffset]),
		}
	}
	return report, nil
}

// ParseStateOfCharge decodes only the state-of-charge column of a raw "pwr"
// response, under the same validation rules as ParseReport.
func ParseStateOfCharge(raw []byte, modules int) ([]float64, error) {
	tokens, err := checkTokens(raw, modules)
	if err != nil {
		return nil, err
	}

	soc := make([]float64, modules)
	for i := range soc {
		soc[i] = float64(tokens[recordStride*i+socOffset])
	}
	return soc, nil
}

func checkTokens(raw []byte, modules int) ([]int64, error) {
	if modules < MinModules || modules > MaxModules {
		return nil, &DecodeError{Modules: modules}
	}
	tokens := extractTokens(raw)
	if required := tokensRequired(modules); len(tokens) < required {
		return nil, &DecodeError{Modules: modules, Required: required, Got: len(tokens)}
	}
	return tokens, nil
}
