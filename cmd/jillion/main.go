// Command jillion aligns biological sequences.
//
// Usage:
//
//	jillion [command] [flags]
//
// Commands:
//
//	align       Align every query sequence against every subject sequence
//	batch       Align query sequences against many subjects in parallel
//	trim        Clip primer sequence from nucleotide reads
//	matrix      List the embedded scoring matrices or print one
//	stats       Summarize sequence files
//	kmer        Count the most frequent k-mers
//	serve       Serve the alignment API over HTTP
//	version     Print version information
package main

import "github.com/JCVenterInstitute/jillion-go/internal/cli"

func main() {
	cli.Execute()
}
