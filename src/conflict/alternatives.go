package conflict

// Substitute groups for crowded symbols: same asset class, correlated or
// substitute instruments, in fixed preference order so recommendations are
// reproducible.
var substituteGroups = map[string][]string{
	"BTCUSDT":  {"ETHUSDT", "WBTCUSDT", "SOLUSDT"},
	"ETHUSDT":  {"SOLUSDT", "AVAXUSDT", "BNBUSDT"},
	"SOLUSDT":  {"AVAXUSDT", "ETHUSDT", "NEARUSDT"},
	"BNBUSDT":  {"ETHUSDT", "SOLUSDT", "AVAXUSDT"},
	"XRPUSDT":  {"ADAUSDT", "XLMUSDT", "ALGOUSDT"},
	"ADAUSDT":  {"XRPUSDT", "DOTUSDT", "ALGOUSDT"},
	"DOGEUSDT": {"SHIBUSDT", "PEPEUSDT", "XRPUSDT"},
}

var defaultSubstitutes = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "BNBUSDT"}

// Alternatives returns up to n substitute symbols for a crowded instrument.
// The result is deterministic for a given input.
func Alternatives(symbol string, n int) []string {
	group, ok := substituteGroups[symbol]
	if !ok {
		group = defaultSubstitutes
	}

	out := make([]string, 0, n)
	for _, alt := range group {
		if alt == symbol {
			continue
		}
		out = append(out, alt)
		if len(out) == n {
			break
		}
	}
	return out
}
