package residue

// Nucleotide is an IUPAC nucleotide code.
type Nucleotide byte

// AminoAcid is a one-letter amino acid code.
type AminoAcid byte

// Gap is the gap symbol shared by the built-in alphabets.
const Gap = '-'

// Nucleotides is the IUPAC nucleotide alphabet, ambiguity codes included.
var Nucleotides = NewAlphabet[Nucleotide]("nucleotide", "ACGTNRYKMSWBDHV", Gap)

// AminoAcids is the amino acid alphabet of the NCBI BLOSUM matrices.
var AminoAcids = NewAlphabet[AminoAcid]("amino-acid", "ARNDCQEGHILKMFPSTWYVBZX*", Gap)

func (n Nucleotide) String() string {
	return string(rune(n))
}

func (a AminoAcid) String() string {
	return string(rune(a))
}

var complements = [256]Nucleotide{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'R': 'Y', 'Y': 'R', 'K': 'M', 'M': 'K',
	'S': 'S', 'W': 'W', 'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D', 'N': 'N', Gap: Gap,
}

// Complement returns the IUPAC complement of n. Symbols outside the
// alphabet complement to N.
func (n Nucleotide) Complement() Nucleotide {
	if c := complements[n]; c != 0 {
		return c
	}
	return 'N'
}

// IsGC reports whether n is G or C.
func (n Nucleotide) IsGC() bool {
	return n == 'G' || n == 'C'
}
