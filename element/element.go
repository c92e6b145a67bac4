// Package element is the fixed table of chemical elements the structure
// writers need: symbol, atomic number, standard atomic mass.
package element

// Element is one row of the periodic table.
type Element struct {
	Symbol string
	Number int
	Mass   float64 // g/mol
}

var table = map[string]Element{
	"H":  {"H", 1, 1.008},
	"He": {"He", 2, 4.0026},
	"Li": {"Li", 3, 6.94},
	"Be": {"Be", 4, 9.0122},
	"B":  {"B", 5, 10.81},
	"C":  {"C", 6, 12.011},
	"N":  {"N", 7, 14.007},
	"O":  {"O", 8, 15.999},
	"F":  {"F", 9, 18.998},
	"Ne": {"Ne", 10, 20.180},
	"Na": {"Na", 11, 22.990},
	"Mg": {"Mg", 12, 24.305},
	"Al": {"Al", 13, 26.982},
	"Si": {"Si", 14, 28.085},
	"P":  {"P", 15, 30.974},
	"S":  {"S", 16, 32.06},
	"Cl": {"Cl", 17, 35.45},
	"Ar": {"Ar", 18, 39.948},
	"K":  {"K", 19, 39.098},
	"Ca": {"Ca", 20, 40.078},
	"Sc": {"Sc", 21, 44.956},
	"Ti": {"Ti", 22, 47.867},
	"V":  {"V", 23, 50.942},
	"Cr": {"Cr", 24, 51.996},
	"Mn": {"Mn", 25, 54.938},
	"Fe": {"Fe", 26, 55.845},
	"Co": {"Co", 27, 58.933},
	"Ni": {"Ni", 28, 58.693},
	"Cu": {"Cu", 29, 63.546},
	"Zn": {"Zn", 30, 65.38},
	"Ga": {"Ga", 31, 69.723},
	"Ge": {"Ge", 32, 72.630},
	"Zr": {"Zr", 40, 91.224},
	"Nb": {"Nb", 41, 92.906},
	"Mo": {"Mo", 42, 95.95},
	"Ru": {"Ru", 44, 101.07},
	"Rh": {"Rh", 45, 102.91},
	"Pd": {"Pd", 46, 106.42},
	"Ag": {"Ag", 47, 107.87},
	"Cd": {"Cd", 48, 112.41},
	"Sn": {"Sn", 50, 118.71},
	"Hf": {"Hf", 72, 178.49},
	"Ta": {"Ta", 73, 180.95},
	"W":  {"W", 74, 183.84},
	"Re": {"Re", 75, 186.21},
	"Os": {"Os", 76, 190.23},
	"Ir": {"Ir", 77, 192.22},
	"Pt": {"Pt", 78, 195.08},
	"Au": {"Au", 79, 196.97},
	"Pb": {"Pb", 82, 207.2},
}

// ByNumber returns the element with the given atomic number, and whether it
// is known.
func ByNumber(n int) (Element, bool) {
	for _, e := range table {
		if e.Number == n {
			return e, true
		}
	}
	return Element{}, false
}

// Lookup returns the element for a symbol, and whether it is known.
func Lookup(symbol string) (Element, bool) {
	e, ok := table[symbol]
	return e, ok
}

// Known reports whether every symbol is in the table.
func Known(symbols ...string) bool {
	for _, s := range symbols {
		if _, ok := table[s]; !ok {
			return false
		}
	}
	return true
}
