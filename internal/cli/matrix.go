package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/spf13/cobra"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix [name]",
	Short: "List the embedded scoring matrices or print one",
	Long: `List the embedded scoring matrices or print one

Without arguments, the names and alphabets of the embedded matrices are
listed. With a name, the matrix is printed in NCBI format, which is also the
format accepted by -M/--matrix for custom matrix files.
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		checkError(printMatrix(os.Stdout, name))
	},
}

func printMatrix(w io.Writer, name string) error {
	if name == "" {
		fmt.Fprintf(w, "name\talphabet\n")
		for _, m := range alignment.Matrices() {
			fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Alphabet)
		}
		return nil
	}

	text, err := alignment.MatrixText(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func init() {
	RootCmd.AddCommand(matrixCmd)

	matrixCmd.SetUsageTemplate(usageTemplate("[name]"))
}
