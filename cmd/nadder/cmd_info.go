package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/101arrowz/nadder/internal/config"
	"github.com/101arrowz/nadder/ndarray"
	"github.com/101arrowz/nadder/ufunc"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

// typeNames lists the data types in mask.
func typeNames(mask ndarray.DataType) string {
	if mask == ndarray.AllTypes {
		return "all"
	}
	var names []string
	for _, dt := range ndarray.DataTypes {
		if mask&dt != 0 {
			names = append(names, dt.String())
		}
	}
	return strings.Join(names, ",")
}

// OpsHandler lists the registered ufuncs.
func OpsHandler(cmd *cobra.Command, _ []string) error {
	var data [][]string
	for _, name := range ufunc.Names() {
		u, _ := ufunc.Lookup(name)

		identity := "-"
		if id := u.Identity(); id != nil {
			identity = fmt.Sprint(id)
		}
		var accepts ndarray.DataType
		for _, im := range u.Impls() {
			accepts |= im.In[0]
		}
		data = append(data, []string{
			name,
			fmt.Sprint(u.Nin()),
			fmt.Sprint(u.Nout()),
			identity,
			fmt.Sprint(len(u.Impls())),
			typeNames(accepts),
		})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "IN", "OUT", "IDENTITY", "LOOPS", "TYPES"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

// DTypesHandler prints which source types (columns) may be stored in which
// destination types (rows) without an explicit conversion.
func DTypesHandler(cmd *cobra.Command, _ []string) error {
	header := []string{"DST \\ SRC"}
	for _, dt := range ndarray.DataTypes {
		header = append(header, dt.String())
	}

	var data [][]string
	for _, dst := range ndarray.DataTypes {
		row := []string{dst.String()}
		for _, src := range ndarray.DataTypes {
			mark := "."
			if ndarray.IsAssignable(dst, src) {
				mark = "x"
			}
			row = append(row, mark)
		}
		data = append(data, row)
	}

	table := newTable(cmd.OutOrStdout(), header)
	table.AppendBulk(data)
	table.Render()
	return nil
}

// EnvHandler prints the configuration read from the environment.
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vars := config.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var data [][]string
	for _, name := range names {
		e := vars[name]
		data = append(data, []string{e.Name, fmt.Sprint(e.Value), e.Description})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ops",
		Aliases: []string{"ls"},
		Short:   "List ufuncs",
		Args:    cobra.NoArgs,
		RunE:    OpsHandler,
	}
}

func newDTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dtypes",
		Short: "Show which data types can be assigned to which",
		Args:  cobra.NoArgs,
		RunE:  DTypesHandler,
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show configuration from the environment",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}
