package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/symexpr"
)

func newEvalCmd(c *cli) *cobra.Command {
	var (
		sets   []string
		latex  bool
		asTree bool
	)
	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Simplify an expression, optionally binding variables",
		Example: `  symexpr eval "2 * (7 / [x])" --set x=9
  symexpr --numeric float eval "10 + 8 * (7 / [x]) + 7 ^ 2" --set x=11 --latex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings, err := parseSets(sets)
			if err != nil {
				return err
			}
			h, err := c.handler()
			if err != nil {
				return err
			}
			resp := h.HandleToolCall(symexpr.ToolRequest{
				Tool:   "simplify",
				Params: map[string]interface{}{"expr": args[0], "bindings": bindings},
			})
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return printResponse(cmd, resp, latex, asTree)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Bind a variable, name=value (repeatable)")
	cmd.Flags().BoolVar(&latex, "latex", false, "Print LaTeX instead of infix text")
	cmd.Flags().BoolVar(&asTree, "json", false, "Print the JSON tree")
	return cmd
}

func newFuncCmd(c *cli) *cobra.Command {
	var latex, asTree bool
	cmd := &cobra.Command{
		Use:     "func SRC",
		Short:   "Convert a single-parameter Go function literal into an expression",
		Example: `  symexpr func "func(x float64) float64 { return 2*x + 1 }"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.handler()
			if err != nil {
				return err
			}
			resp := h.HandleToolCall(symexpr.ToolRequest{
				Tool:   "parse_func",
				Params: map[string]interface{}{"func": args[0]},
			})
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return printResponse(cmd, resp, latex, asTree)
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "Print LaTeX instead of infix text")
	cmd.Flags().BoolVar(&asTree, "json", false, "Print the JSON tree")
	return cmd
}

func printResponse(cmd *cobra.Command, resp symexpr.ToolResponse, latex, asTree bool) error {
	out := cmd.OutOrStdout()
	switch {
	case asTree:
		data, err := json.Marshal(resp.Result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case latex:
		fmt.Fprintln(out, resp.LaTeX)
	default:
		fmt.Fprintln(out, resp.String)
	}
	return nil
}

func parseSets(sets []string) (map[string]interface{}, error) {
	bindings := make(map[string]interface{}, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", s)
		}
		bindings[name] = value
	}
	return bindings, nil
}
