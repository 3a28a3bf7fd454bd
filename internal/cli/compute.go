package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
	"github.com/aalvaropc/brixcalc/internal/infra/logger"
	"github.com/aalvaropc/brixcalc/internal/usecase/extract"
)

type computeFlags struct {
	workspace string

	mass      float64
	brix      float64
	target    float64
	sweetener float64
	dilution  string

	format  string
	explain bool
	remote  string
	queries []string
}

func computeCmd() *cobra.Command {
	var f computeFlags

	c := &cobra.Command{
		Use:   "compute",
		Short: "Compute the sugar needed to reach a target °Brix",
		Example: `  brixcalc compute --mass 50 --brix 7 --target 10
  brixcalc compute -m 50 -b 7 -t 10 --format json --explain
  brixcalc compute -m 50 -b 7 -t 10 --query '$.display.sweetener_mass'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(f.workspace)
			if err != nil {
				return err
			}
			if err := applyDilutionFlag(&ws.cfg, f.dilution); err != nil {
				return err
			}

			debug, _ := cmd.Flags().GetBool("debug")
			defer setupLogging(ws.logRoot(), debug, false)()

			in := inputsFromFlags(cmd, ws.cfg, f)
			uc := ws.computeUseCase(ws.calculator(f.remote), nil, logger.L())

			b, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			precision := ws.cfg.Display.Precision
			if len(f.queries) > 0 {
				return printQueries(cmd.OutOrStdout(), apiwire.NewBalanceResponse(b, precision, true), f.queries)
			}
			return printBalance(cmd.OutOrStdout(), b, precision, f.format, f.explain)
		},
	}

	c.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().Float64VarP(&f.mass, "mass", "m", 0, "Initial pulp mass M1 in kg (default from config)")
	c.Flags().Float64VarP(&f.brix, "brix", "b", 0, "Initial concentration X1 in °Brix (default from config)")
	c.Flags().Float64VarP(&f.target, "target", "t", 0, "Target concentration X3 in °Brix (default from config)")
	c.Flags().Float64Var(&f.sweetener, "sweetener", 0, "Sweetener concentration X2 in °Brix (default from config)")
	c.Flags().StringVar(&f.dilution, "dilution", "", "Dilution policy when target < initial: allow|reject (default from config)")
	c.Flags().StringVar(&f.format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&f.explain, "explain", false, "Include the step-by-step derivation")
	c.Flags().StringVar(&f.remote, "remote", "", "Compute through a running brixcalc server (e.g. http://127.0.0.1:8080)")
	c.Flags().StringArrayVarP(&f.queries, "query", "q", nil, "JSONPath over the JSON result; repeatable, one value per line")
	return c
}

// inputsFromFlags overlays explicitly set flags on the configured defaults.
func inputsFromFlags(cmd *cobra.Command, cfg domain.Config, f computeFlags) domain.Inputs {
	in := cfg.DefaultInputs()
	if cmd.Flags().Changed("mass") {
		in.InitialMass = f.mass
	}
	if cmd.Flags().Changed("brix") {
		in.InitialBrix = f.brix
	}
	if cmd.Flags().Changed("target") {
		in.TargetBrix = f.target
	}
	if cmd.Flags().Changed("sweetener") {
		in.SweetenerBrix = f.sweetener
	}
	return in
}

func applyDilutionFlag(cfg *domain.Config, raw string) error {
	if raw == "" {
		return nil
	}
	p, err := domain.ParseDilutionPolicy(raw)
	if err != nil {
		return &domain.OpError{
			Op:    "cli.flags",
			Kind:  domain.KindInvalidInput,
			Field: "dilution",
			Err:   fmt.Errorf("%v: %w", err, domain.ErrInvalidInput),
		}
	}
	cfg.Calculation.Dilution = p
	return nil
}

func printBalance(w io.Writer, b domain.Balance, precision int, format string, explain bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(apiwire.NewBalanceResponse(b, precision, explain))
	case "pretty", "":
		printPrettyBalance(w, b, precision, explain)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyBalance(w io.Writer, b domain.Balance, precision int, explain bool) {
	in := b.Inputs
	fmt.Fprintf(w, "Initial mass:   %s\n", domain.FormatMass(in.InitialMass, precision))
	fmt.Fprintf(w, "Initial Brix:   %g °Bx\n", in.InitialBrix)
	fmt.Fprintf(w, "Target Brix:    %g °Bx\n", in.TargetBrix)
	fmt.Fprintf(w, "Sweetener Brix: %g °Bx\n", in.SweetenerBrix)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sugar to add:   %s\n", domain.FormatMass(b.SweetenerMass, precision))
	fmt.Fprintf(w, "Final mass:     %s\n", domain.FormatMass(b.FinalMass, precision))
	if b.Dilution {
		fmt.Fprintf(w, "\nwarning: %s\n", apiwire.DilutionWarning)
	}
	if explain {
		fmt.Fprintln(w)
		fmt.Fprint(w, domain.Explain(b, precision).String())
	}
}

func printQueries(w io.Writer, resp apiwire.BalanceResponse, queries []string) error {
	values, err := extract.SelectValue(resp, queries)
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
	return nil
}
