// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/runtime"
)

func newInterpreterCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "interpreter",
		Short: "Read deploy and call commands from stdin, one per line",
		Long: `Read commands from stdin, one per line, against a single open database:

  deploy <counter|vault> [seed]
  call <address|$N> <function> [params...]
  contracts
  exit

$N refers to the account created by the Nth deploy of the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			i := &interpreter{rt: c.rt, deploy: c.deploy}
			return i.Run(c.context(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type interpreter struct {
	rt     *runtime.Runtime
	deploy func(context.Context, string, string) (codec.Address, error)

	deployed []codec.Address
}

// Run executes commands until [in] is exhausted or exit is read. A failing
// command is reported and the session continues.
func (i *interpreter) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	parser := shellwords.NewParser()

	scanner := bufio.NewScanner(in)
	for line := 0; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || strings.HasPrefix(text, "#") {
			continue
		}
		args, err := parser.Parse(text)
		if err != nil {
			resp := newResponse(line)
			resp.setError(err)
			if err := resp.Print(out); err != nil {
				return err
			}
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		resp := newResponse(line)
		if err := i.exec(ctx, args, resp, out); err != nil {
			resp.setError(err)
		}
		if len(resp.Error) == 0 && resp.Result.Value == nil && len(resp.Result.Address) == 0 {
			continue
		}
		if err := resp.Print(out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (i *interpreter) exec(ctx context.Context, args []string, resp *Response, out io.Writer) error {
	switch args[0] {
	case "deploy":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: deploy <contract> [seed]")
		}
		var seed string
		if len(args) == 3 {
			seed = args[2]
		}
		addr, err := i.deploy(ctx, args[1], seed)
		if err != nil {
			return err
		}
		i.deployed = append(i.deployed, addr)
		resp.Result.Address = addr.String()
		return nil
	case "call":
		if len(args) < 3 {
			return errors.New("usage: call <address> <function> [params...]")
		}
		for j := 1; j < len(args); j++ {
			if j == 2 {
				continue
			}
			resolved, err := i.resolve(args[j])
			if err != nil {
				return err
			}
			args[j] = resolved
		}
		callInfo, err := newCallInfo(args[1], args[2], args[3:])
		if err != nil {
			return err
		}
		result, err := i.rt.Call(ctx, callInfo)
		if err != nil {
			return err
		}
		resp.setCallResult(result)
		return nil
	case "contracts":
		_, err := fmt.Fprintln(out, strings.Join(i.rt.Contracts(), " "))
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

// resolve replaces $N with the address of the Nth deploy.
func (i *interpreter) resolve(arg string) (string, error) {
	ref, ok := strings.CutPrefix(arg, "$")
	if !ok {
		return arg, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 0 || n >= len(i.deployed) {
		return "", fmt.Errorf("%w: %s", ErrUnknownStep, arg)
	}
	return i.deployed[n].String(), nil
}
