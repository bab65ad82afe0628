package gate

// ---------- immutable value objects ----------------------------------

// simple 1-qubit gate
type u1 struct{ name, symbol string }

func (g u1) Name() string       { return g.name }
func (g u1) QubitSpan() int     { return 1 }
func (g u1) DrawSymbol() string { return g.symbol }
func (g u1) Targets() []int     { return []int{0} } // Target is the only qubit
func (g u1) Controls() []int    { return []int{} }  // No controls

// 2-qubit gate with fixed ASCII symbol (CNOT, SWAP, CZ)
type u2 struct {
	name, symbol      string
	targets, controls []int
}

func (g u2) Name() string       { return g.name }
func (g u2) QubitSpan() int     { return 2 }
func (g u2) DrawSymbol() string { return g.symbol }
func (g u2) Targets() []int     { return g.targets }
func (g u2) Controls() []int    { return g.controls }

// 3-qubit gate (Toffoli, Fredkin)
type u3 struct {
	name, symbol      string
	targets, controls []int
}

func (g u3) Name() string       { return g.name }
func (g u3) QubitSpan() int     { return 3 }
func (g u3) DrawSymbol() string { return g.symbol }
func (g u3) Targets() []int     { return g.targets }
func (g u3) Controls() []int    { return g.controls }

// measurement (1-qubit but special semantic)
type meas struct{}

func (meas) Name() string       { return "MEASURE" }
func (meas) QubitSpan() int     { return 1 }
func (meas) DrawSymbol() string { return "M" }
func (meas) Targets() []int     { return []int{0} } // Target is the only qubit
func (meas) Controls() []int    { return []int{} }  // No controls

// reset (1-qubit, non-unitary: forces the qubit to |0>)
type reset struct{}

func (reset) Name() string       { return "R" }
func (reset) QubitSpan() int     { return 1 }
func (reset) DrawSymbol() string { return "R" }
func (reset) Targets() []int     { return []int{0} }
func (reset) Controls() []int    { return []int{} }

// ---------- constructors (singletons) --------------------------------

var (
	hGate       = &u1{"H", "H"}
	hxyGate     = &u1{"H_XY", "Hxy"}
	hyzGate     = &u1{"H_YZ", "Hyz"}
	xGate       = &u1{"X", "X"}
	yGate       = &u1{"Y", "Y"}
	zGate       = &u1{"Z", "Z"}
	sGate       = &u1{"S", "S"}
	sDagGate    = &u1{"S_DAG", "S†"}
	sqrtXGate   = &u1{"SQRT_X", "√X"}
	sqrtXDGate  = &u1{"SQRT_X_DAG", "√X†"}
	sqrtYGate   = &u1{"SQRT_Y", "√Y"}
	sqrtYDGate  = &u1{"SQRT_Y_DAG", "√Y†"}
	swapG       = &u2{"SWAP", "×", []int{0, 1}, []int{}}     // Targets 0, 1; No controls
	cnotG       = &u2{"CNOT", "⊕", []int{1}, []int{0}}       // Target 1; Control 0
	czGate      = &u2{"CZ", "●", []int{1}, []int{0}}         // Target 1; Control 0 (Symbol represents control dot)
	cyGate      = &u2{"CY", "●Y", []int{1}, []int{0}}        // Target 1; Control 0
	iswapGate   = &u2{"ISWAP", "i×", []int{0, 1}, []int{}}   // Symmetric, no controls
	iswapDGate  = &u2{"ISWAP_DAG", "i×†", []int{0, 1}, []int{}}
	xcxGate     = &u2{"XCX", "XCX", []int{0, 1}, []int{}} // Symmetric Pauli-product gates
	xcyGate     = &u2{"XCY", "XCY", []int{0, 1}, []int{}}
	xczGate     = &u2{"XCZ", "XCZ", []int{1}, []int{0}}
	ycxGate     = &u2{"YCX", "YCX", []int{1}, []int{0}}
	ycyGate     = &u2{"YCY", "YCY", []int{0, 1}, []int{}}
	yczGate     = &u2{"YCZ", "YCZ", []int{1}, []int{0}}
	toffG       = &u3{"TOFFOLI", "T", []int{2}, []int{0, 1}} // Target 2; Controls 0, 1
	fredG       = &u3{"FREDKIN", "F", []int{1, 2}, []int{0}} // Targets 1, 2; Control 0
	measG       = &meas{}
	resetG      = &reset{}
)

// Public accessors return the shared immutable value.
// (Reduces allocations and supports pointer equality tricks in passes.)
func H() Gate         { return hGate }
func H_XY() Gate      { return hxyGate }
func H_YZ() Gate      { return hyzGate }
func X() Gate         { return xGate }
func Y() Gate         { return yGate }
func Z() Gate         { return zGate }
func S() Gate         { return sGate }
func SDag() Gate      { return sDagGate }
func SqrtX() Gate     { return sqrtXGate }
func SqrtXDag() Gate  { return sqrtXDGate }
func SqrtY() Gate     { return sqrtYGate }
func SqrtYDag() Gate  { return sqrtYDGate }
func Swap() Gate      { return swapG }
func CNOT() Gate      { return cnotG }
func CZ() Gate        { return czGate }
func CY() Gate        { return cyGate }
func ISWAP() Gate     { return iswapGate }
func ISWAPDag() Gate  { return iswapDGate }
func XCX() Gate       { return xcxGate }
func XCY() Gate       { return xcyGate }
func XCZ() Gate       { return xczGate }
func YCX() Gate       { return ycxGate }
func YCY() Gate       { return ycyGate }
func YCZ() Gate       { return yczGate }
func Toffoli() Gate   { return toffG }
func Fredkin() Gate   { return fredG }
func Measure() Gate   { return measG }
func Reset() Gate     { return resetG }

// InverseOf maps a gate's canonical name to the name of its inverse, for
// every gate in the catalogue that isn't self-inverse. Gates absent from
// this map (I, X, Y, Z, H and its variants, SWAP, and every controlled
// gate) are their own inverse. stab/chp's gateTable does not read this map;
// it maps each of these names and its partner to mutually inverse tableau
// updates.
var InverseOf = map[string]string{
	"S":          "S_DAG",
	"S_DAG":      "S",
	"SQRT_X":     "SQRT_X_DAG",
	"SQRT_X_DAG": "SQRT_X",
	"SQRT_Y":     "SQRT_Y_DAG",
	"SQRT_Y_DAG": "SQRT_Y",
	"ISWAP":      "ISWAP_DAG",
	"ISWAP_DAG":  "ISWAP",
}
