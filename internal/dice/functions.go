package dice

// FactLimit bounds fact()'s input. The evaluator rejects larger inputs
// outright (FactorialInputTooLargeError); the clamp inside factorial
// below only keeps the table total for direct callers — the
// user-visible contract lives at the evaluator.
const FactLimit = 50

// functionOrder is registry order: SupportedFunctions returns
// ["abs","id","fact","negate"].
var functionOrder = []string{"abs", "id", "fact", "negate"}

// SupportedFunctions returns the registered unary function names in
// registry order.
func SupportedFunctions() []string {
	out := make([]string, len(functionOrder))
	copy(out, functionOrder)
	return out
}

var functionTable = map[string]func(int64) int64{
	"id":     func(x int64) int64 { return x },
	"negate": func(x int64) int64 { return -x },
	"abs": func(x int64) int64 {
		if x < 0 {
			return -x
		}
		return x
	},
	"fact": factorial,
}

// factorial is total: negative inputs are 0, and inputs above FactLimit
// are clamped to FactLimit so the loop stays bounded. The product is a
// plain int64, so results for inputs above 20 overflow and wrap.
func factorial(x int64) int64 {
	if x < 0 {
		return 0
	}
	if x == 0 {
		return 1
	}
	if x > FactLimit {
		x = FactLimit
	}
	result := int64(1)
	for i := int64(2); i <= x; i++ {
		result *= i
	}
	return result
}

func applyFunction(name string, x int64) (int64, error) {
	fn, ok := functionTable[name]
	if !ok {
		return 0, &UnknownFunctionError{Name: name}
	}
	if name == "fact" && x > FactLimit {
		return 0, &FactorialInputTooLargeError{N: x, Limit: FactLimit}
	}
	return fn(x), nil
}
